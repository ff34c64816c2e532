package rest

import (
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/rmoretti/auditrail/internal/core/model"
	"github.com/rmoretti/auditrail/internal/core/usecase"
)

// dateLayout is the wire format of date query parameters: yyyyMMdd.
const dateLayout = "20060102"

type auditRequest struct {
	Email string `json:"email" binding:"required,email"`
}

// audit records a login event for the account identified by email. A
// missing account is a conflict, not a not-found: the caller asserted an
// identity the system does not hold.
func (s *Server) audit(c *gin.Context) {
	var req auditRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"message": err.Error()})
		return
	}
	if err := s.audits.Audit(c.Request.Context(), req.Email); err != nil {
		if errors.Is(err, model.ErrNotFound) {
			c.JSON(http.StatusConflict, gin.H{"message": "account not found"})
			return
		}
		writeError(c, err)
		return
	}
	c.Status(http.StatusCreated)
}

func (s *Server) loginDates(c *gin.Context) {
	page, err := parsePage(c)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"message": err.Error()})
		return
	}
	dates, err := s.audits.FindLoginDates(c.Request.Context(), page)
	if err != nil {
		writeError(c, err)
		return
	}
	out := make([]string, len(dates))
	for i, d := range dates {
		out[i] = d.Format(dateLayout)
	}
	c.JSON(http.StatusOK, out)
}

func (s *Server) activeAccounts(c *gin.Context) {
	start, end, err := s.parseWindow(c)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"message": err.Error()})
		return
	}
	page, err := parsePage(c)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"message": err.Error()})
		return
	}
	accounts, err := s.audits.FindActiveAccounts(c.Request.Context(), model.FindActiveAccountsArgs{
		Start: start,
		End:   end,
		Page:  page,
	})
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, accounts)
}

func (s *Server) filteredLoginCounts(c *gin.Context) {
	start, end, err := s.parseWindow(c)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"message": err.Error()})
		return
	}
	page, err := parsePage(c)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"message": err.Error()})
		return
	}
	filter := model.AuditFilter{
		Start:       start,
		End:         end,
		Emails:      c.QueryArray("emails"),
		FirstNames:  c.QueryArray("firstNames"),
		MiddleNames: c.QueryArray("middleNames"),
		LastNames:   c.QueryArray("lastNames"),
	}
	counts, err := s.audits.FindFilteredLoginCounts(c.Request.Context(), filter, page)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, counts)
}

// parseWindow reads the optional start/end date parameters. A start date
// maps to local midnight, an end date to the last instant of that day,
// both in the audit service's configured zone.
func (s *Server) parseWindow(c *gin.Context) (start, end *time.Time, err error) {
	loc := s.audits.Location()
	if raw := c.Query("start"); raw != "" {
		day, err := time.ParseInLocation(dateLayout, raw, loc)
		if err != nil {
			return nil, nil, errors.New("invalid start date, expected yyyyMMdd")
		}
		from := usecase.DayStart(day)
		start = &from
	}
	if raw := c.Query("end"); raw != "" {
		day, err := time.ParseInLocation(dateLayout, raw, loc)
		if err != nil {
			return nil, nil, errors.New("invalid end date, expected yyyyMMdd")
		}
		to := usecase.DayEnd(day)
		end = &to
	}
	return start, end, nil
}

// parsePage reads the optional page/size parameters. An unpaged call is
// equivalent to page=0 with no size limit.
func parsePage(c *gin.Context) (model.PageRequest, error) {
	page := model.PageRequest{Page: 0, Size: model.SizeAll}
	if raw := c.Query("page"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n < 0 {
			return model.PageRequest{}, errors.New("invalid page parameter")
		}
		page.Page = n
	}
	if raw := c.Query("size"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n < 0 {
			return model.PageRequest{}, errors.New("invalid size parameter")
		}
		page.Size = n
	}
	return page, nil
}
