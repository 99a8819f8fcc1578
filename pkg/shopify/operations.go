package shopify

import (
	"fmt"
	"sort"
	"strings"

	"github.com/dgraph-io/gqlparser/v2/ast"
	"github.com/dgraph-io/gqlparser/v2/parser"
)

const cartDiscountCodesQuery = `
query CartDiscountCodes($cartId: ID!) {
  cart(id: $cartId) {
    id
    discountCodes {
      applicable
      code
    }
  }
}
`

const cartDiscountCodesUpdateMutation = `
mutation cartDiscountCodesUpdate($cartId: ID!, $discountCodes: [String!]) {
  cartDiscountCodesUpdate(cartId: $cartId, discountCodes: $discountCodes) {
    cart {
      id
      discountCodes {
        applicable
        code
      }
      totalQuantity
      cost {
        subtotalAmount {
          amount
          currencyCode
        }
        totalAmount {
          amount
          currencyCode
        }
      }
    }
    userErrors {
      field
      message
    }
  }
}
`

// operation is a parsed Storefront document with exactly one named query or mutation.
type operation struct {
	name      string
	kind      ast.Operation
	variables []string
	document  string
}

var (
	opFetchCart           = mustParseOperation(cartDiscountCodesQuery)
	opUpdateDiscountCodes = mustParseOperation(cartDiscountCodesUpdateMutation)
)

func mustParseOperation(document string) operation {
	op, err := parseOperation(document)
	if err != nil {
		panic(err)
	}
	return op
}

func parseOperation(document string) (operation, error) {
	doc, gqlErr := parser.ParseQuery(&ast.Source{Input: document})
	if gqlErr != nil {
		return operation{}, fmt.Errorf("shopify: unable to parse graphql document: %s", gqlErr.Message)
	}
	if count := len(doc.Operations); count != 1 {
		return operation{}, fmt.Errorf("shopify: document must hold exactly one operation, found %d", count)
	}

	def := doc.Operations[0]
	if def.Operation != ast.Query && def.Operation != ast.Mutation {
		return operation{}, fmt.Errorf("shopify: unsupported operation type %q", def.Operation)
	}
	if strings.TrimSpace(def.Name) == "" {
		return operation{}, fmt.Errorf("shopify: %s operation must be named", def.Operation)
	}

	vars := make([]string, 0, len(def.VariableDefinitions))
	for _, vd := range def.VariableDefinitions {
		vars = append(vars, vd.Variable)
	}
	sort.Strings(vars)

	return operation{
		name:      def.Name,
		kind:      def.Operation,
		variables: vars,
		document:  strings.TrimSpace(document),
	}, nil
}

// checkVariables rejects a variables map that does not match the declared definitions.
func (o operation) checkVariables(variables map[string]any) error {
	if len(variables) != len(o.variables) {
		return fmt.Errorf("shopify: %s expects variables %v, got %d", o.name, o.variables, len(variables))
	}
	for _, name := range o.variables {
		if _, ok := variables[name]; !ok {
			return fmt.Errorf("shopify: %s missing variable $%s", o.name, name)
		}
	}
	return nil
}
