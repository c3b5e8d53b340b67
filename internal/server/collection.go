package server

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// RunCollection is the scheduled trigger: one sweep plus one batch
// pass, returning the aggregate counters.
func (s *Server) RunCollection(c *gin.Context) {
	swept, err := s.invoiceSvc.SweepOverdue(c.Request.Context())
	if err != nil {
		AbortWithError(c, err)
		return
	}

	result, err := s.collectionSvc.ProcessOverdueInvoices(c.Request.Context())
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"swept_overdue":  swept,
		"processed":      result.Processed,
		"reminders_sent": result.RemindersSent,
		"escalated":      result.Escalated,
	})
}

// RunCollectionManual runs the same pass on demand and echoes the
// invoking principal for the admin audit trail.
func (s *Server) RunCollectionManual(c *gin.Context) {
	principal := c.GetHeader("X-Admin-User")
	if principal == "" {
		principal = "admin"
	}
	s.log.Info("manual collection run requested", zap.String("principal", principal))

	swept, err := s.invoiceSvc.SweepOverdue(c.Request.Context())
	if err != nil {
		AbortWithError(c, err)
		return
	}

	result, err := s.collectionSvc.ProcessOverdueInvoices(c.Request.Context())
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"triggered_by":   principal,
		"swept_overdue":  swept,
		"processed":      result.Processed,
		"reminders_sent": result.RemindersSent,
		"escalated":      result.Escalated,
	})
}

// GetDelinquencyReport returns the age-bucket aggregation over overdue
// invoices.
func (s *Server) GetDelinquencyReport(c *gin.Context) {
	report, err := s.collectionSvc.Report(c.Request.Context())
	if err != nil {
		AbortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, report)
}
