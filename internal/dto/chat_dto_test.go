package dto

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestAskRequestFlagDefaults(t *testing.T) {
	var req AskRequest
	assert.True(t, req.RewriteEnabled())
	assert.True(t, req.RerankEnabled())

	off := false
	req.EnableRewrite = &off
	req.EnableRerank = &off
	assert.False(t, req.RewriteEnabled())
	assert.False(t, req.RerankEnabled())

	on := true
	req.EnableRewrite = &on
	assert.True(t, req.RewriteEnabled())
}
