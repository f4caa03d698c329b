package handlers

import (
	"errors"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/nova-solidum/app-onboarding/internal/models"
	"github.com/nova-solidum/app-onboarding/internal/services"
	"github.com/nova-solidum/app-onboarding/internal/utils"
)

// MaxFormMemory is the multipart memory limit for draft uploads. Ten slots of
// up to 10MB each plus text fields.
const MaxFormMemory = 11 * services.MaxDocumentSize

// MaxDraftBody caps a whole draft request: every document slot at the size
// limit plus 1MB for text fields and multipart framing.
var MaxDraftBody = int64(len(models.FileFields))*services.MaxDocumentSize + 1<<20

// parseDraftForm builds a draft from a multipart or urlencoded form of at most
// maxBody bytes. Field names are the draft field names. A file part over
// MaxDocumentSize rejects the form with a field error for its slot.
func parseDraftForm(c *gin.Context, maxBody int64) (*models.RegistrationDraft, error) {
	draft := models.NewRegistrationDraft()
	c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, maxBody)

	if strings.HasPrefix(c.ContentType(), "multipart/") {
		if err := c.Request.ParseMultipartForm(MaxFormMemory); err != nil {
			return nil, formError("malformed multipart form", err)
		}
	} else if err := c.Request.ParseForm(); err != nil {
		return nil, formError("malformed form", err)
	}

	for key, values := range c.Request.PostForm {
		if len(values) == 0 {
			continue
		}
		field := models.Field(key)
		value := values[0]
		switch {
		case field == models.FieldAccountType:
			draft.AccountType = models.AccountType(strings.ToUpper(strings.TrimSpace(value)))
		case models.IsFlagField(field):
			flag, err := strconv.ParseBool(strings.TrimSpace(value))
			if err != nil {
				return nil, fmt.Errorf("%w: %s must be true or false", models.ErrInvalidInput, key)
			}
			draft.SetFlag(field, flag)
		case models.IsFileField(field):
			// file slots only come from file parts
		default:
			draft.Set(field, value)
		}
	}

	if c.Request.MultipartForm != nil {
		oversized := utils.NewValidationResult()
		for _, field := range models.FileFields {
			headers := c.Request.MultipartForm.File[string(field)]
			if len(headers) == 0 {
				continue
			}
			if headers[0].Size > services.MaxDocumentSize {
				oversized.AddError(string(field), services.MsgFileTooLarge)
				continue
			}
			slot, err := readFileSlot(headers[0])
			if err != nil {
				return nil, err
			}
			draft.SetFile(field, slot)
		}
		if !oversized.IsValid {
			return nil, oversized.Err()
		}
	}
	return draft, nil
}

func formError(what string, err error) error {
	var tooLarge *http.MaxBytesError
	if errors.As(err, &tooLarge) {
		return fmt.Errorf("%w: limit is %d bytes", models.ErrPayloadTooLarge, tooLarge.Limit)
	}
	return fmt.Errorf("%w: %s: %v", models.ErrInvalidInput, what, err)
}

func readFileSlot(header *multipart.FileHeader) (models.FileSlot, error) {
	slot := models.FileSlot{
		Kind:      models.FileSlotPresent,
		Name:      header.Filename,
		MimeType:  header.Header.Get("Content-Type"),
		SizeBytes: header.Size,
	}

	file, err := header.Open()
	if err != nil {
		return models.FileSlot{}, fmt.Errorf("failed to open upload %s: %w", header.Filename, err)
	}
	defer file.Close()

	data, err := io.ReadAll(io.LimitReader(file, services.MaxDocumentSize+1))
	if err != nil {
		return models.FileSlot{}, fmt.Errorf("failed to read upload %s: %w", header.Filename, err)
	}
	slot.Bytes = data
	slot.SizeBytes = int64(len(data))
	return slot, nil
}
