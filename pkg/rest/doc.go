// Package rest exposes password generation over HTTP.
//
// Endpoints, relative to the configured base URL (default /v1):
//
//	Method | Path             | Description
//	-------|------------------|------------------------------------------------
//	GET    | /passwords       | Generate passwords from query parameters
//	POST   | /passwords       | Generate passwords from a JSON body
//	POST   | /passwords/check | Report which classes a password contains
//	GET    | /classes         | List character classes, alphabets and weights
//
// GET /healthz is served outside the base URL and without middleware.
//
// Generation parameters, as query parameters or JSON fields:
//
//	Parameter | Description
//	----------|--------------------------------------------------
//	length    | Password length, 1..1000
//	lower     | Require a lowercase letter
//	upper     | Require an uppercase letter
//	digits    | Require a digit
//	symbols   | Require a symbol
//	count     | Number of passwords (default 1, bounded by max count)
//
// Parameters that are omitted take the server defaults. Query booleans accept
// strconv.ParseBool values as well as the HTML checkbox values "on" and "off".
//
// Generated passwords are returned as JSON unless ?format=text is given or
// the Accept header prefers text/plain, in which case one password is written
// per line. All responses carry Cache-Control: no-store.
//
// Errors use the httputil.ErrorResponse shape with a machine-readable reason:
//
//	Status | Reason
//	-------|-----------------------------------------------------------------
//	400    | invalid_length, length_too_high, length_too_short,
//	       | no_class_selected, invalid_count, invalid_parameter
//	503    | too_many_iterations
//	500    | internal
//
// Example usage:
//
//	server := rest.NewServer(passgen.New(), rest.WithBaseURL("/v1"))
//	log.Fatal(server.Start(":8080"))
package rest
