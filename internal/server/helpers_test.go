package server

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
)

func TestParsePage(t *testing.T) {
	app := fiber.New()
	var page, limit int
	app.Get("/", func(c *fiber.Ctx) error {
		page, limit = parsePage(c)
		return c.SendStatus(http.StatusOK)
	})

	tests := []struct {
		name          string
		url           string
		expectedPage  int
		expectedLimit int
	}{
		{"Defaults", "/", 1, 10},
		{"Explicit", "/?page=3&limit=25", 3, 25},
		{"Negative Page", "/?page=-2", 1, 10},
		{"Zero Limit", "/?limit=0", 1, 10},
		{"Limit Capped", "/?limit=5000", 1, 100},
		{"Garbage", "/?page=abc&limit=xyz", 1, 10},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, tt.url, nil)
			resp, _ := app.Test(req)
			defer func() { _ = resp.Body.Close() }()
			assert.Equal(t, tt.expectedPage, page)
			assert.Equal(t, tt.expectedLimit, limit)
		})
	}
}

func TestTotalPages(t *testing.T) {
	assert.Equal(t, 0, totalPages(0, 10))
	assert.Equal(t, 1, totalPages(1, 10))
	assert.Equal(t, 1, totalPages(10, 10))
	assert.Equal(t, 2, totalPages(11, 10))
	assert.Equal(t, 0, totalPages(5, 0))
}

func TestHumanizeParam(t *testing.T) {
	assert.Equal(t, "video id", humanizeParam("videoId"))
	assert.Equal(t, "playlist id", humanizeParam("playlistId"))
	assert.Equal(t, "username", humanizeParam("username"))
}

func TestParseQueryID(t *testing.T) {
	id, err := parseQueryID("7")
	assert.NoError(t, err)
	assert.Equal(t, uint(7), id)

	_, err = parseQueryID("0")
	assert.Error(t, err)
	_, err = parseQueryID("abc")
	assert.Error(t, err)
	_, err = parseQueryID("-1")
	assert.Error(t, err)
}
