package services

import (
	"fmt"
	"strings"

	"github.com/dmitrijs2005/skywatch/internal/common"
	validation "github.com/go-ozzo/ozzo-validation"
)

// invalidInput wraps a validation failure so that errors.Is matches
// common.ErrorInvalidInput while the text stays user-presentable.
func invalidInput(err error) error {
	return fmt.Errorf("%w: %s", common.ErrorInvalidInput, strings.TrimSuffix(err.Error(), "."))
}

// minWords rejects strings with fewer than n whitespace-separated words.
// Empty values are left to validation.Required.
func minWords(n int) validation.Rule {
	return validation.By(func(value interface{}) error {
		s, _ := value.(string)
		if s == "" {
			return nil
		}
		if len(strings.Fields(s)) < n {
			return fmt.Errorf("must contain at least %d words", n)
		}
		return nil
	})
}
