package errz

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestErrorsAreDistinct(t *testing.T) {
	all := []error{
		ErrFailedToLoadConfig, ErrFailedToConvertConfig, ErrFailedToValidateConfig, ErrUnsupportedConfigVer,
		ErrInvalidValue, ErrMissingRequiredField, ErrInvalidIdentifier,
		ErrUnsupportedLanguage, ErrInvalidTimeout, ErrInvalidExtension,
	}
	for i, a := range all {
		for j, b := range all {
			if i != j {
				assert.False(t, errors.Is(a, b), "%v should not match %v", a, b)
			}
		}
	}
}

func TestWrapping(t *testing.T) {
	err := fmt.Errorf("%w: engine.language: %w", ErrFailedToValidateConfig, ErrUnsupportedLanguage)
	assert.ErrorIs(t, err, ErrFailedToValidateConfig)
	assert.ErrorIs(t, err, ErrUnsupportedLanguage)
}
