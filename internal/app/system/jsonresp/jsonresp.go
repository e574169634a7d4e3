// Package jsonresp writes the registry's JSON response envelope.
//
// Success: {"success":true,"data":...,"message":"...","pagination":{...}}
// Failure: {"success":false,"message":"...","errors":[{"field":"...","message":"..."}]}
package jsonresp

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"

	"github.com/sroam/sroregistry/internal/app/system/inputval"
)

// MaxBodyBytes bounds request bodies accepted by Decode.
const MaxBodyBytes = 1 << 20

// Pagination describes one page of a list result.
type Pagination struct {
	Page  int   `json:"page"`
	Limit int   `json:"limit"`
	Total int64 `json:"total"`
	Pages int64 `json:"pages"`
}

// Envelope is the body of every registry JSON response.
type Envelope struct {
	Success    bool                  `json:"success"`
	Data       any                   `json:"data,omitempty"`
	Message    string                `json:"message,omitempty"`
	Pagination *Pagination           `json:"pagination,omitempty"`
	Errors     []inputval.FieldError `json:"errors,omitempty"`
}

// Write encodes env with status.
func Write(w http.ResponseWriter, status int, env Envelope) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(env)
}

// OK writes a 200 success envelope.
func OK(w http.ResponseWriter, data any, message string) {
	Write(w, http.StatusOK, Envelope{Success: true, Data: data, Message: message})
}

// Created writes a 201 success envelope.
func Created(w http.ResponseWriter, data any, message string) {
	Write(w, http.StatusCreated, Envelope{Success: true, Data: data, Message: message})
}

// Page writes a 200 success envelope carrying pagination.
func Page(w http.ResponseWriter, data any, p Pagination) {
	Write(w, http.StatusOK, Envelope{Success: true, Data: data, Pagination: &p})
}

// Error writes a failure envelope.
func Error(w http.ResponseWriter, status int, message string) {
	Write(w, status, Envelope{Success: false, Message: message})
}

// ValidationFailed writes a 400 with field-level detail.
func ValidationFailed(w http.ResponseWriter, message string, fields []inputval.FieldError) {
	Write(w, http.StatusBadRequest, Envelope{Success: false, Message: message, Errors: fields})
}

// Decode reads a single JSON object from r into dst.
func Decode(w http.ResponseWriter, r *http.Request, dst any) error {
	r.Body = http.MaxBytesReader(w, r.Body, MaxBodyBytes)
	dec := json.NewDecoder(r.Body)
	if err := dec.Decode(dst); err != nil {
		var maxErr *http.MaxBytesError
		switch {
		case errors.Is(err, io.EOF):
			return errors.New("request body is empty")
		case errors.As(err, &maxErr):
			return fmt.Errorf("request body exceeds %d bytes", maxErr.Limit)
		default:
			return fmt.Errorf("malformed JSON: %w", err)
		}
	}
	if dec.More() {
		return errors.New("request body must contain a single JSON object")
	}
	return nil
}
