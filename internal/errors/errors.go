package errors

import (
	"errors"
	"fmt"
	"strings"
)

// ParsingError is returned when a request body is not valid JSON.
type ParsingError struct {
	ErrorMsg string
}

func (m *ParsingError) Error() string {
	return m.ErrorMsg
}

type BadRequestError struct {
	ErrorMsg string
}

func (m *BadRequestError) Error() string {
	return m.ErrorMsg
}

// MissingFieldsError lists every required request field that was absent.
type MissingFieldsError struct {
	Fields []string
}

func (m *MissingFieldsError) Error() string {
	return "Missing required fields: " + strings.Join(m.Fields, ", ")
}

// InvalidInputError names the request field that failed validation.
type InvalidInputError struct {
	Field    string
	ErrorMsg string
}

func (m *InvalidInputError) Error() string {
	if m.ErrorMsg != "" {
		return m.ErrorMsg
	}
	return fmt.Sprintf("Invalid numeric value provided for field: %s", m.Field)
}

type AlignmentError struct {
	Column   string
	ErrorMsg string
}

func (m *AlignmentError) Error() string {
	return m.ErrorMsg
}

type UnknownSegmentError struct {
	Segment string
}

func (m *UnknownSegmentError) Error() string {
	return fmt.Sprintf("no model/scaler registered for segment %q", m.Segment)
}

type PredictionError struct {
	ErrorMsg string
}

func (m *PredictionError) Error() string {
	return m.ErrorMsg
}

type ArtifactError struct {
	Artifact string
	ErrorMsg string
}

func (m *ArtifactError) Error() string {
	return fmt.Sprintf("artifact %s: %s", m.Artifact, m.ErrorMsg)
}

type PolicyError struct {
	Policy   string
	ErrorMsg string
}

func (m *PolicyError) Error() string {
	return fmt.Sprintf("policy %s: %s", m.Policy, m.ErrorMsg)
}

// IsClientError reports whether err was caused by the request itself rather than by
// the service or its artifacts.
func IsClientError(err error) bool {
	var missing *MissingFieldsError
	var invalid *InvalidInputError
	var badRequest *BadRequestError
	var parsing *ParsingError
	return errors.As(err, &missing) || errors.As(err, &invalid) || errors.As(err, &badRequest) ||
		errors.As(err, &parsing)
}

// Type returns a short metric tag value for err.
func Type(err error) string {
	var (
		missing    *MissingFieldsError
		invalid    *InvalidInputError
		badRequest *BadRequestError
		parsing    *ParsingError
		alignment  *AlignmentError
		unknown    *UnknownSegmentError
		prediction *PredictionError
	)
	switch {
	case errors.As(err, &missing):
		return "missing-fields"
	case errors.As(err, &invalid):
		return "invalid-input"
	case errors.As(err, &badRequest):
		return "bad-request"
	case errors.As(err, &parsing):
		return "parsing"
	case errors.As(err, &alignment):
		return "alignment"
	case errors.As(err, &unknown):
		return "unknown-segment"
	case errors.As(err, &prediction):
		return "prediction"
	default:
		return "internal"
	}
}
