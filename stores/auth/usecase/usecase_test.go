package usecase_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stakevault/goapi/base/ctx"
	"github.com/stakevault/goapi/stores/auth/usecase"
)

func TestSignAndParseToken(t *testing.T) {
	ctx := ctx.Background()
	u := usecase.New("jwt-secret")
	tkn, err := u.SignToken(ctx, "0xAbCd")
	assert.NoError(t, err)
	assert.NotEmpty(t, tkn)
	ads, err := u.ParseToken(ctx, tkn)
	assert.NoError(t, err)
	assert.Equal(t, "0xabcd", ads)
}
