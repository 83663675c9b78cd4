package http

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"loan-predictor/internal/service"
)

// PageHandler sirve las paginas estaticas.
type PageHandler struct{}

func NewPageHandler() *PageHandler {
	return &PageHandler{}
}

// Home maneja GET /.
func (h *PageHandler) Home(c *gin.Context) {
	c.HTML(http.StatusOK, "index.html", gin.H{"title": "Home"})
}

// About maneja GET /about.
func (h *PageHandler) About(c *gin.Context) {
	c.HTML(http.StatusOK, "about.html", gin.H{"title": "About"})
}

// Contact maneja GET /contact.
func (h *PageHandler) Contact(c *gin.Context) {
	c.HTML(http.StatusOK, "contact.html", gin.H{"title": "Contact"})
}

// PredictForm maneja GET /predict.
func (h *PageHandler) PredictForm(c *gin.Context) {
	c.HTML(http.StatusOK, "predict.html", gin.H{
		"title":     "Predict",
		"minIncome": service.MinApplicantIncome,
		"minLoan":   service.MinLoanAmount,
		"maxLoan":   service.MaxLoanAmount,
		"minTerm":   service.MinLoanTerm,
		"maxTerm":   service.MaxLoanTerm,
	})
}
