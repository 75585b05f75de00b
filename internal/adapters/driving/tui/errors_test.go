package tui

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestErrors_AreDistinct(t *testing.T) {
	errs := []error{ErrMissingChatService, ErrMissingDocumentID, ErrInvalidPorts}

	for i := range errs {
		for j := range errs {
			if i != j {
				assert.NotErrorIs(t, errs[i], errs[j])
			}
		}
	}
}

func TestErrors_HavePrefix(t *testing.T) {
	assert.Contains(t, ErrMissingChatService.Error(), "tui:")
	assert.Contains(t, ErrMissingDocumentID.Error(), "tui:")
	assert.Contains(t, ErrInvalidPorts.Error(), "tui:")
}
