package site

import (
	"errors"
	"fmt"
	"net/mail"
	"strings"

	"go.uber.org/zap"
)

// ConfirmationMessage is shown after a contact form is accepted.
const ConfirmationMessage = "お問い合わせありがとうございます。担当者より2営業日以内にご連絡いたします。"

// ErrMissingField is returned when a required contact field is blank.
var ErrMissingField = errors.New("required field is empty")

// ErrInvalidEmail is returned for an unparseable email address.
var ErrInvalidEmail = errors.New("invalid email address")

// ContactForm is the inquiry form on the landing page.
type ContactForm struct {
	Name    string `json:"name"`
	Email   string `json:"email"`
	Phone   string `json:"phone,omitempty"`
	Subject string `json:"subject,omitempty"`
	Message string `json:"message"`
}

// IsZero reports whether every field is empty, as after a reset.
func (f ContactForm) IsZero() bool {
	return f == ContactForm{}
}

// Validate checks the required fields.
func (f ContactForm) Validate() error {
	required := []struct {
		name  string
		value string
	}{
		{"name", f.Name},
		{"email", f.Email},
		{"message", f.Message},
	}
	for _, field := range required {
		if strings.TrimSpace(field.value) == "" {
			return fmt.Errorf("%w: %s", ErrMissingField, field.name)
		}
	}
	if _, err := mail.ParseAddress(strings.TrimSpace(f.Email)); err != nil {
		return fmt.Errorf("%w: %s", ErrInvalidEmail, f.Email)
	}
	return nil
}

// ContactConfirmation is the client-side acknowledgement of an inquiry.
// Nothing is sent anywhere; Form is the reset form.
type ContactConfirmation struct {
	Message string      `json:"message"`
	Form    ContactForm `json:"form"`
}

// AcceptContact validates form and acknowledges it. The inquiry is logged
// only; there is no delivery backend.
func AcceptContact(logger *zap.Logger, form ContactForm) (ContactConfirmation, error) {
	if logger == nil {
		logger = zap.NewNop()
	}
	if err := form.Validate(); err != nil {
		logger.Debug("contact form rejected",
			zap.String("op", "site.AcceptContact"),
			zap.Error(err),
		)
		return ContactConfirmation{}, err
	}

	logger.Info("contact form received",
		zap.String("op", "site.AcceptContact"),
		zap.String("subject", form.Subject),
		zap.Int("messageLength", len([]rune(form.Message))),
	)
	return ContactConfirmation{Message: ConfirmationMessage}, nil
}
