/*
Package api is the HTTP client for the EKoder coding service.

# Overview

The api package provides:
  - Text submission (POST /api/v1/code)
  - Casenote upload (POST /api/v1/code/upload, multipart field "file")
  - Identity verification (GET /api/v1/auth/me, bearer)
  - Credential exchange (POST /api/v1/auth/login)
  - Best-effort health probe (GET /api/v1/health)

# Authentication

Only the identity endpoint carries the bearer token. The submission
endpoints send no credential; that matches the service contract and is
deliberate.

# Error Handling

Errors are categorized as:
  - StatusError: the service answered with a non-2xx status; Detail holds
    the server's "detail" field when present (plain string or FastAPI-style
    validation list)
  - Transport errors: connection, DNS, TLS and timeout failures, returned
    as ordinary errors

Message converts either kind into a display string. Transport errors pass
through CategorizeTransportError, which maps raw net/url errors to
actionable text.

# Example Usage

	client := api.NewClient("http://localhost:8000", 30*time.Second)

	result, err := client.CodeText(ctx, "elderly patient with chest pain")
	if err != nil {
		return fmt.Errorf("submission failed: %s", api.Message(err))
	}

	fmt.Printf("Suggested: %s (%s)\n", result.SuggestedCode, result.Descriptor)

# Thread Safety

A Client is safe for concurrent use; each call builds its own request and
the underlying http.Client handles connection pooling.
*/
package api
