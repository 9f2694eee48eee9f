package handlers

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"
	"github.com/minddumper/minddumper/services/dump"
	"github.com/minddumper/minddumper/services/profile"
	"github.com/minddumper/minddumper/session"
)

type DumpHandler struct {
	dumps    *dump.Service
	profiles *profile.Service
}

func NewDumpHandler(dumps *dump.Service, profiles *profile.Service) *DumpHandler {
	return &DumpHandler{
		dumps:    dumps,
		profiles: profiles,
	}
}

// RequirePaid guards the brain-dump API: access is payment-gated.
func (h *DumpHandler) RequirePaid() echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			p, err := h.profiles.GetByID(session.GetProfileID(c))
			if err != nil {
				return echo.NewHTTPError(http.StatusUnauthorized, "authentication required")
			}
			if p.PaymentStatus != profile.PaymentPaid {
				return echo.NewHTTPError(http.StatusForbidden, "payment required")
			}
			return next(c)
		}
	}
}

func (h *DumpHandler) ListCategories(c echo.Context) error {
	categories, err := h.dumps.ListCategories()
	if err != nil {
		return c.JSON(http.StatusInternalServerError, errorBody("internal server error"))
	}
	return c.JSON(http.StatusOK, categories)
}

func (h *DumpHandler) ListTriggerWords(c echo.Context) error {
	var categoryID *uint
	if raw := c.QueryParam("category_id"); raw != "" {
		id, err := strconv.ParseUint(raw, 10, 32)
		if err != nil {
			return c.JSON(http.StatusBadRequest, errorBody("category_id must be numeric"))
		}
		v := uint(id)
		categoryID = &v
	}

	words, err := h.dumps.ListTriggerWords(c.QueryParam("language"), categoryID)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, errorBody("internal server error"))
	}
	return c.JSON(http.StatusOK, words)
}

type customWordRequest struct {
	Word     string `json:"word"`
	Language string `json:"language"`
}

func (h *DumpHandler) AddCustomWord(c echo.Context) error {
	var req customWordRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, errorBody("invalid request body"))
	}

	word, err := h.dumps.AddCustomWord(session.GetProfileID(c), req.Word, req.Language)
	if err != nil {
		switch {
		case errors.Is(err, dump.ErrWordRequired):
			return c.JSON(http.StatusBadRequest, errorBody("word is required"))
		case errors.Is(err, dump.ErrCustomWordExists):
			return c.JSON(http.StatusConflict, errorBody("word already exists"))
		default:
			return c.JSON(http.StatusInternalServerError, errorBody("internal server error"))
		}
	}
	return c.JSON(http.StatusCreated, word)
}

func (h *DumpHandler) RemoveCustomWord(c echo.Context) error {
	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		return c.JSON(http.StatusBadRequest, errorBody("id must be numeric"))
	}

	if err := h.dumps.RemoveCustomWord(session.GetProfileID(c), uint(id)); err != nil {
		if errors.Is(err, dump.ErrWordNotFound) {
			return c.JSON(http.StatusNotFound, errorBody("word not found"))
		}
		return c.JSON(http.StatusInternalServerError, errorBody("internal server error"))
	}
	return c.NoContent(http.StatusNoContent)
}

func (h *DumpHandler) ListCustomWords(c echo.Context) error {
	words, err := h.dumps.ListCustomWords(session.GetProfileID(c))
	if err != nil {
		return c.JSON(http.StatusInternalServerError, errorBody("internal server error"))
	}
	return c.JSON(http.StatusOK, words)
}

type startDumpRequest struct {
	Language string `json:"language"`
}

func (h *DumpHandler) StartDump(c echo.Context) error {
	var req startDumpRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, errorBody("invalid request body"))
	}

	d, err := h.dumps.StartBrainDump(session.GetProfileID(c), req.Language)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, errorBody("internal server error"))
	}
	return c.JSON(http.StatusCreated, d)
}

type appendEntryRequest struct {
	Text          string `json:"text"`
	TriggerWordID *uint  `json:"trigger_word_id,omitempty"`
}

func (h *DumpHandler) AppendEntry(c echo.Context) error {
	dumpID, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		return c.JSON(http.StatusBadRequest, errorBody("id must be numeric"))
	}

	var req appendEntryRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, errorBody("invalid request body"))
	}

	entry, err := h.dumps.AppendEntry(session.GetProfileID(c), uint(dumpID), req.Text, req.TriggerWordID)
	if err != nil {
		return h.respondDumpError(c, err)
	}
	return c.JSON(http.StatusCreated, entry)
}

func (h *DumpHandler) FinishDump(c echo.Context) error {
	dumpID, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		return c.JSON(http.StatusBadRequest, errorBody("id must be numeric"))
	}

	d, err := h.dumps.FinishBrainDump(session.GetProfileID(c), uint(dumpID))
	if err != nil {
		return h.respondDumpError(c, err)
	}
	return c.JSON(http.StatusOK, d)
}

func (h *DumpHandler) ListDumps(c echo.Context) error {
	dumps, err := h.dumps.ListBrainDumps(session.GetProfileID(c))
	if err != nil {
		return c.JSON(http.StatusInternalServerError, errorBody("internal server error"))
	}
	return c.JSON(http.StatusOK, dumps)
}

func (h *DumpHandler) respondDumpError(c echo.Context, err error) error {
	switch {
	case errors.Is(err, dump.ErrTextRequired):
		return c.JSON(http.StatusBadRequest, errorBody("text is required"))
	case errors.Is(err, dump.ErrDumpNotFound):
		return c.JSON(http.StatusNotFound, errorBody("brain dump not found"))
	case errors.Is(err, dump.ErrDumpFinished):
		return c.JSON(http.StatusConflict, errorBody("brain dump is already finished"))
	default:
		return c.JSON(http.StatusInternalServerError, errorBody("internal server error"))
	}
}
