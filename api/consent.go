package api

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"vitrine/adapters/session"
)

type consentView struct {
	// Necessary cookies cannot be refused; the field exists so the banner
	// renders all three toggles from one payload.
	Necessary bool `json:"necessary"`
	Analytics bool `json:"analytics"`
	Marketing bool `json:"marketing"`
}

// Current consent preferences, defaulting to refused.
// (GET /api/consent)
func (impl *ServerImpl) GetConsent(c *gin.Context) {
	const op = "GetConsent"
	sess, err := session.GetSession(c)
	if err != nil {
		impl.abortInternal(c, op, err)
		return
	}
	c.JSON(http.StatusOK, consentView{
		Necessary: true,
		Analytics: sess.Get(SESSION_KEY_CONSENT_ANALYTICS) == "true",
		Marketing: sess.Get(SESSION_KEY_CONSENT_MARKETING) == "true",
	})
}

type consentRequest struct {
	Analytics bool `json:"analytics"`
	Marketing bool `json:"marketing"`
}

// Store consent preferences in the visitor session.
// (PUT /api/consent)
func (impl *ServerImpl) PutConsent(c *gin.Context) {
	const op = "PutConsent"
	var req consentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"message": err.Error()})
		return
	}
	sess, err := session.GetSession(c)
	if err != nil {
		impl.abortInternal(c, op, err)
		return
	}
	sess.Set(SESSION_KEY_CONSENT_ANALYTICS, strconv.FormatBool(req.Analytics))
	sess.Set(SESSION_KEY_CONSENT_MARKETING, strconv.FormatBool(req.Marketing))
	if err := sess.Save(); err != nil {
		impl.abortInternal(c, op, err)
		return
	}
	c.JSON(http.StatusOK, consentView{
		Necessary: true,
		Analytics: req.Analytics,
		Marketing: req.Marketing,
	})
}
