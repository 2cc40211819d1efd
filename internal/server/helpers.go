package server

import (
	"errors"
	"io"
	"log/slog"
	"mime/multipart"
	"strconv"
	"strings"

	"clipstream/internal/middleware"
	"clipstream/internal/models"
	"clipstream/internal/storage"

	"github.com/gofiber/fiber/v2"
)

// errResponseWritten signals that the handler has already written an error
// response to the client and the caller should return nil.
var errResponseWritten = errors.New("error response written")

// parseID extracts a numeric route parameter and writes a 400 response on
// failure. Callers must return nil when errResponseWritten comes back.
func parseID(c *fiber.Ctx, param string) (uint, error) {
	raw := c.Params(param)
	id, err := strconv.ParseUint(raw, 10, 32)
	if err != nil || id == 0 {
		models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewValidationError("Invalid "+humanizeParam(param)))
		return 0, errResponseWritten
	}
	return uint(id), nil
}

// parseQueryID parses a numeric identifier from a query parameter value.
func parseQueryID(raw string) (uint, error) {
	id, err := strconv.ParseUint(raw, 10, 32)
	if err != nil || id == 0 {
		return 0, errors.New("invalid id")
	}
	return uint(id), nil
}

// humanizeParam turns a camelCase route parameter name into words,
// e.g. "videoId" -> "video id".
func humanizeParam(param string) string {
	return strings.ToLower(strings.Join(splitCamel(param), " "))
}

func splitCamel(s string) []string {
	var words []string
	start := 0
	for i, r := range s {
		if i > 0 && r >= 'A' && r <= 'Z' {
			words = append(words, s[start:i])
			start = i
		}
	}
	words = append(words, s[start:])
	return words
}

// parsePage reads page/limit query parameters with sane bounds.
func parsePage(c *fiber.Ctx) (page, limit int) {
	page, _ = strconv.Atoi(c.Query("page", "1"))
	if page < 1 {
		page = 1
	}
	limit, _ = strconv.Atoi(c.Query("limit", "10"))
	if limit < 1 {
		limit = 10
	}
	if limit > 100 {
		limit = 100
	}
	return page, limit
}

func totalPages(total int64, limit int) int {
	if limit <= 0 {
		return 0
	}
	pages := int(total) / limit
	if int(total)%limit != 0 {
		pages++
	}
	return pages
}

// uploadFormFile streams a multipart form file to the media store under the
// given key prefix and returns the public URL.
func (s *Server) uploadFormFile(c *fiber.Ctx, fh *multipart.FileHeader, prefix string) (string, error) {
	f, err := fh.Open()
	if err != nil {
		return "", err
	}
	defer func() {
		if cerr := f.Close(); cerr != nil {
			middleware.Logger.WarnContext(c.Context(), "failed to close uploaded file",
				slog.String("filename", fh.Filename), slog.Any("error", cerr))
		}
	}()

	key := storage.ObjectKey(prefix, fh.Filename)
	contentType := fh.Header.Get("Content-Type")
	return s.media.Upload(c.Context(), key, io.Reader(f), contentType)
}

// deleteMediaBestEffort removes a stored asset and logs failures instead of
// surfacing them; the owning record is already gone by the time this runs.
func (s *Server) deleteMediaBestEffort(c *fiber.Ctx, url string) {
	if url == "" || s.media == nil {
		return
	}
	if err := s.media.Delete(c.Context(), url); err != nil {
		middleware.MediaDeleteFailures.Inc()
		middleware.Logger.WarnContext(c.Context(), "failed to delete media asset",
			slog.String("url", url), slog.Any("error", err))
	}
}
