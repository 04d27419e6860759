package serverutils

import (
	"errors"
	"fmt"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/likhit-sai/CogniFlow/pkg/ai/assist"
	"github.com/likhit-sai/CogniFlow/pkg/reorg"
	"github.com/likhit-sai/CogniFlow/pkg/store"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStatusFor(t *testing.T) {
	cases := []struct {
		name string
		err  error
		want int
	}{
		{"not found", store.NotFoundError{Kind: "item", ID: "x"}, fiber.StatusNotFound},
		{"wrapped not found", fmt.Errorf("show: %w", store.NotFoundError{Kind: "plan", ID: "p"}), fiber.StatusNotFound},
		{"cycle", store.ErrCycle, fiber.StatusConflict},
		{"not loaded", store.ErrNotLoaded, fiber.StatusServiceUnavailable},
		{"invalid kind", fmt.Errorf("%w: page-1 is not a presentation", store.ErrInvalidKind), fiber.StatusBadRequest},
		{"empty text", assist.ErrEmptyText, fiber.StatusBadRequest},
		{"duplicate temp id", fmt.Errorf("apply plan p: %w", reorg.ErrDuplicateTempID), fiber.StatusBadRequest},
		{"validation", &ValidationError{Fields: map[string]string{"name": "is required"}}, fiber.StatusBadRequest},
		{"fiber error", fiber.ErrUnauthorized, fiber.StatusUnauthorized},
		{"anything else", errors.New("disk on fire"), fiber.StatusInternalServerError},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, StatusFor(tc.err))
		})
	}
}

func TestValidateRequest(t *testing.T) {
	type req struct {
		Name string `validate:"required,max=5"`
		Kind string `validate:"oneof=a b"`
	}

	assert.NoError(t, ValidateRequest(req{Name: "ok", Kind: "a"}))

	err := ValidateRequest(req{Name: "too long", Kind: "c"})
	var ve *ValidationError
	require.ErrorAs(t, err, &ve)
	assert.Equal(t, "must be at most 5 characters", ve.Fields["name"])
	assert.Equal(t, "must be one of [a b]", ve.Fields["kind"])
}
