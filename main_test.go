package main

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestListenPort(t *testing.T) {
	assert.Equal(t, 9000, listenPort(":9000"))
	assert.Equal(t, 8081, listenPort("0.0.0.0:8081"))
	assert.Equal(t, 8080, listenPort("nonsense"))
	assert.Equal(t, 8080, listenPort("host:http"))
}

func TestShareLinkFor(t *testing.T) {
	assert.Equal(t, "roomboard://board.lan:9000/42", shareLinkFor("http://board.lan:9000", "42"))
	assert.Equal(t, "roomboard://board.lan:443/42", shareLinkFor("https://board.lan", "42"))
	assert.Equal(t, "", shareLinkFor("not a url", "42"))
}
