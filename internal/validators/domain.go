// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package validators

import (
	"context"
	"net/mail"
	"strings"

	"github.com/MKhiriev/go-tool-keeper/models"
)

const (
	FieldAction   = "action"
	FieldTable    = "table"
	FieldID       = "id"
	FieldData     = "data"
	FieldPriority = "priority"
	FieldLimit    = "limit"
	FieldLogin    = "login"
	FieldPassword = "password"
	FieldPlan     = "plan"
	FieldAmount   = "amount"
	FieldCurrency = "currency"
	FieldEmail    = "email"
)

// MaxSelectLimit caps the page size of a table read.
const MaxSelectLimit = 1000

// MinPasswordLength is the shortest accepted account password.
const MinPasswordLength = 6

var allowedPlans = []string{"basic", "pro", "enterprise"}

// DomainValidator validates queue items, table reads, credentials and
// payment requests.
type DomainValidator struct{}

func NewDomainValidator() Validator {
	return &DomainValidator{}
}

func (v *DomainValidator) Validate(ctx context.Context, obj any, fields ...string) error {
	switch value := obj.(type) {
	case models.QueueItem:
		return v.validateQueueItem(value, fields...)
	case *models.QueueItem:
		return v.validateQueueItem(*value, fields...)

	case models.SelectRequest:
		return v.validateSelectRequest(value, fields...)
	case *models.SelectRequest:
		return v.validateSelectRequest(*value, fields...)

	case models.User:
		return v.validateUser(value, fields...)
	case *models.User:
		return v.validateUser(*value, fields...)

	case models.PaymentRequest:
		return v.validatePaymentRequest(value, fields...)
	case *models.PaymentRequest:
		return v.validatePaymentRequest(*value, fields...)

	default:
		return ErrUnsupportedType
	}
}

// validateQueueItem checks a mutation before it is queued or applied.
// Priority is only checked when non-empty; stores default it.
func (v *DomainValidator) validateQueueItem(item models.QueueItem, fields ...string) error {
	if len(fields) == 0 {
		fields = []string{FieldAction, FieldTable, FieldID, FieldPriority}
	}

	for _, f := range fields {
		switch f {
		case FieldAction:
			if !item.Action.Valid() {
				return ErrInvalidAction
			}
		case FieldTable:
			if !models.IsKnownTable(item.Table) {
				return ErrUnknownTable
			}
		case FieldID:
			if _, ok := item.RecordID(); item.Action.RequiresID() && !ok {
				return ErrMissingID
			}
		case FieldData:
			if item.Action != models.ActionDelete && len(item.Data) == 0 {
				return ErrEmptyData
			}
		case FieldPriority:
			if item.Priority != "" && !item.Priority.Valid() {
				return ErrInvalidPriority
			}
		default:
			return ErrUnknownField
		}
	}

	return nil
}

func (v *DomainValidator) validateSelectRequest(req models.SelectRequest, fields ...string) error {
	if len(fields) == 0 {
		fields = []string{FieldTable, FieldLimit}
	}

	for _, f := range fields {
		switch f {
		case FieldTable:
			if !models.IsKnownTable(req.Table) {
				return ErrUnknownTable
			}
		case FieldLimit:
			if req.Limit > MaxSelectLimit {
				return ErrLimitTooLarge
			}
		default:
			return ErrUnknownField
		}
	}

	return nil
}

func (v *DomainValidator) validateUser(user models.User, fields ...string) error {
	if len(fields) == 0 {
		fields = []string{FieldLogin, FieldPassword}
	}

	for _, f := range fields {
		switch f {
		case FieldLogin:
			if strings.TrimSpace(user.Login) == "" {
				return ErrEmptyLogin
			}
		case FieldPassword:
			if len(user.Password) < MinPasswordLength {
				return ErrShortPassword
			}
		default:
			return ErrUnknownField
		}
	}

	return nil
}

func (v *DomainValidator) validatePaymentRequest(req models.PaymentRequest, fields ...string) error {
	if len(fields) == 0 {
		fields = []string{FieldPlan, FieldAmount, FieldCurrency, FieldEmail}
	}

	for _, f := range fields {
		switch f {
		case FieldPlan:
			if !isAllowedPlan(req.Plan) {
				return ErrInvalidPlan
			}
		case FieldAmount:
			if req.AmountCents <= 0 {
				return ErrInvalidAmount
			}
		case FieldCurrency:
			if len(req.Currency) != 3 || strings.ToUpper(req.Currency) != req.Currency {
				return ErrInvalidCurrency
			}
		case FieldEmail:
			if _, err := mail.ParseAddress(req.Email); err != nil {
				return ErrInvalidEmail
			}
		default:
			return ErrUnknownField
		}
	}

	return nil
}

func isAllowedPlan(plan string) bool {
	for _, p := range allowedPlans {
		if p == plan {
			return true
		}
	}
	return false
}
