package platform

import (
	"errors"
	"net/http"
	"testing"

	"github.com/bwmarrin/discordgo"
	"github.com/stretchr/testify/assert"

	"modbot/moderation"
)

func restError(status, code int) error {
	return &discordgo.RESTError{
		Response: &http.Response{StatusCode: status},
		Message:  &discordgo.APIErrorMessage{Code: code, Message: "unknown"},
	}
}

func TestMapError(t *testing.T) {
	t.Run("unknown member", func(t *testing.T) {
		err := mapError(restError(http.StatusNotFound, discordgo.ErrCodeUnknownMember))
		assert.ErrorIs(t, err, moderation.ErrMemberNotFound)
		assert.NotErrorIs(t, err, moderation.ErrNotFound)
	})

	t.Run("unknown role", func(t *testing.T) {
		err := mapError(restError(http.StatusNotFound, discordgo.ErrCodeUnknownRole))
		assert.ErrorIs(t, err, moderation.ErrNotFound)
	})

	t.Run("missing permissions pass through", func(t *testing.T) {
		err := mapError(restError(http.StatusForbidden, discordgo.ErrCodeMissingPermissions))
		assert.NotErrorIs(t, err, moderation.ErrNotFound)
		assert.NotErrorIs(t, err, moderation.ErrMemberNotFound)
		var restErr *discordgo.RESTError
		assert.True(t, errors.As(err, &restErr))
	})

	t.Run("non REST error", func(t *testing.T) {
		plain := errors.New("connection reset")
		assert.Equal(t, plain, mapError(plain))
	})
}
