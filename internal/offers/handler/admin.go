package handler

import (
	"bytes"
	"html/template"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"offerdesk_backend/internal/offers/transport"
	"offerdesk_backend/platform/httpkit"

	"github.com/gin-gonic/gin"
)

// RegisterAdminRoutes registers the key-guarded moderation routes.
func (h *Handler) RegisterAdminRoutes(rg *gin.RouterGroup) {
	rg.GET("/offers", h.ListOffersHTML)
	rg.GET("/offers.json", h.ListOffersJSON)
	rg.GET("/offers/:id/status", h.SetStatus)
	rg.GET("/offers/:id/create-code", h.CreateCode)
	rg.GET("/offers/:id/draft", h.CreateDraft)
}

// ListOffersJSON returns the recent offers as JSON.
func (h *Handler) ListOffersJSON(c *gin.Context) {
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "200"))
	resp, err := h.svc.ListRecent(c.Request.Context(), limit)
	if httpkit.HandleError(c, err) {
		return
	}
	httpkit.OK(c, resp)
}

// ListOffersHTML renders the moderation table.
func (h *Handler) ListOffersHTML(c *gin.Context) {
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "200"))
	resp, err := h.svc.ListRecent(c.Request.Context(), limit)
	if httpkit.HandleError(c, err) {
		return
	}

	var buf bytes.Buffer
	if err := adminTemplate.Execute(&buf, adminPage{
		Key:    c.Query("key"),
		Offers: resp.Items,
	}); err != nil {
		httpkit.Error(c, http.StatusInternalServerError, "template error")
		return
	}
	c.Data(http.StatusOK, "text/html; charset=utf-8", buf.Bytes())
}

// SetStatus applies an admin status transition and redirects back to the
// list so the moderation view works as plain links.
func (h *Handler) SetStatus(c *gin.Context) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		httpkit.Error(c, http.StatusBadRequest, "invalid offer id")
		return
	}

	if err := h.svc.SetStatus(c.Request.Context(), id, c.Query("value")); httpkit.HandleError(c, err) {
		return
	}

	c.Redirect(http.StatusFound, "/admin/offers?key="+url.QueryEscape(c.Query("key")))
}

// CreateCode manually retries discount provisioning for an offer.
func (h *Handler) CreateCode(c *gin.Context) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		httpkit.Error(c, http.StatusBadRequest, "invalid offer id")
		return
	}

	offer, err := h.svc.Provision(c.Request.Context(), id)
	if httpkit.HandleError(c, err) {
		return
	}

	resp := transport.ProvisionResponse{OK: true}
	if offer.DiscountCode != nil {
		resp.Code = *offer.DiscountCode
	}
	if offer.DiscountExpiresAt != nil {
		resp.ExpiresAt = offer.DiscountExpiresAt.Format(time.RFC3339)
	}
	httpkit.OK(c, resp)
}

// CreateDraft bundles all accepted unbundled offers sharing this offer's
// buyer and shop into one draft order.
func (h *Handler) CreateDraft(c *gin.Context) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		httpkit.Error(c, http.StatusBadRequest, "invalid offer id")
		return
	}

	offer, err := h.svc.GetByID(c.Request.Context(), id)
	if httpkit.HandleError(c, err) {
		return
	}

	resp, err := h.svc.Bundle(c.Request.Context(), offer.EmailNorm, offer.ShopDomain)
	if httpkit.HandleError(c, err) {
		return
	}
	httpkit.OK(c, resp)
}

type adminPage struct {
	Key    string
	Offers []transport.OfferResponse
}

var adminTemplate = template.Must(template.New("offers").Parse(`<!doctype html>
<html>
<head>
<meta charset="utf-8">
<title>Offers</title>
<style>
body { font-family: system-ui, sans-serif; margin: 2rem; }
table { border-collapse: collapse; width: 100%; }
th, td { border: 1px solid #ccc; padding: 6px 10px; text-align: left; font-size: 14px; }
th { background: #f4f4f4; }
.status-open { color: #946200; }
.status-accepted { color: #0a7d33; }
.status-declined { color: #b00020; }
.status-expired { color: #666; }
a { margin-right: 6px; }
</style>
</head>
<body>
<h1>Offers</h1>
<table>
<tr>
	<th>ID</th><th>Created</th><th>Shop</th><th>Product</th><th>Price</th>
	<th>Offer</th><th>Email</th><th>Note</th><th>Status</th><th>Code</th>
	<th>Draft</th><th>Actions</th>
</tr>
{{range .Offers}}
<tr>
	<td>{{.ID}}</td>
	<td>{{.CreatedAt}}</td>
	<td>{{.ShopDomain}}</td>
	<td>{{.ProductTitle}} {{.VariantTitle}}</td>
	<td>{{.PriceCents}} {{.Currency}}</td>
	<td>{{.OfferCents}} {{.Currency}}</td>
	<td>{{.Email}}</td>
	<td>{{.Note}}</td>
	<td class="status-{{.Status}}">{{.Status}}</td>
	<td>{{.DiscountCode}}</td>
	<td>{{.DraftOrderID}}</td>
	<td>
		<a href="/admin/offers/{{.ID}}/status?value=accepted&key={{$.Key}}">accept</a>
		<a href="/admin/offers/{{.ID}}/status?value=declined&key={{$.Key}}">decline</a>
		<a href="/admin/offers/{{.ID}}/status?value=expired&key={{$.Key}}">expire</a>
		<a href="/admin/offers/{{.ID}}/status?value=open&key={{$.Key}}">reopen</a>
		<a href="/admin/offers/{{.ID}}/create-code?key={{$.Key}}">code</a>
		<a href="/admin/offers/{{.ID}}/draft?key={{$.Key}}">draft</a>
	</td>
</tr>
{{end}}
</table>
</body>
</html>
`))
