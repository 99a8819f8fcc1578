package controllers

import (
	"net/http"

	"github.com/teamgamma/storefront-discount-relay/api/responses"
)

const rootMessage = "Shopify Discount API is Running!"

// Root answers the plain-text liveness probe used by the checkout extension.
func Root() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		responses.WritePlain(w, http.StatusOK, rootMessage)
	}
}
