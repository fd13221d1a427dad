// Package openapi turns OpenAPI component schemas into scenario inputs so a
// form can be bootstrapped from an existing API description.
package openapi
