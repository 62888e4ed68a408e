// Package docs holds the Swagger 2.0 description of the HTTP API.
package docs

import (
	_ "embed"

	"github.com/swaggo/swag"
)

//go:embed swagger.json
var swaggerJSON string

// SwaggerInfo is the registered API description.
var SwaggerInfo = &swag.Spec{
	Version:          "1.0",
	BasePath:         "/",
	Schemes:          []string{},
	Title:            "GST Billing API",
	Description:      "Invoices with GST computed per line, customers, products and sales reports.",
	InfoInstanceName: "swagger",
	SwaggerTemplate:  swaggerJSON,
}

func init() {
	swag.Register(SwaggerInfo.InstanceName(), SwaggerInfo)
}
