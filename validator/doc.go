// Package validator validates decomposed HTTP requests and responses against
// an OpenAPI 3 document.
//
// The document is compiled once: every path template is turned into a
// matcher and every operation into a set of schema validators for path,
// query, header and cookie parameters, request bodies keyed by content type,
// and response headers and bodies keyed by status code.
//
// # Basic Usage
//
//	spec, _ := openapi3.NewLoader().LoadFromFile("openapi.yaml")
//	v, err := validator.New(spec)
//	if err != nil {
//	    log.Fatal(err)
//	}
//
//	validated, err := v.ValidateRequest("/pets/42", validator.Request{
//	    Method: "get",
//	    Path:   map[string]any{"petId": 42},
//	})
//	if err != nil {
//	    var perr *oaerr.ParameterError
//	    if errors.As(err, &perr) {
//	        log.Printf("%s: %s", perr.In, perr.Message)
//	    }
//	    return err
//	}
//	log.Println(validated.OperationID)
//
// # Validation Order
//
// Request axes are validated in the order path, query, header, cookie,
// request body. Validation stops at the first failing axis. Whether that
// axis reports one or all of its violations depends on EngineOptions.AllErrors.
// Responses are validated header first, then body.
//
// Bodies are decoded JSON values. Other Go values are JSON round-tripped
// before validation.
//
// # Errors
//
// Expected failures are the typed errors of package oaerr. Any other error
// comes from a collaborator, typically a custom Engine, and is returned
// unchanged. Use oaerr.IsValidationError to tell them apart.
//
// # Engine Options
//
// Request and response schemas are compiled by two independently configured
// engines:
//
//	v, err := validator.New(spec,
//	    validator.WithRequestEngineOptions(validator.EngineOptions{AllErrors: true}),
//	    validator.WithResponseEngineOptions(validator.EngineOptions{Strict: true}),
//	)
package validator
