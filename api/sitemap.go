package api

import (
	"encoding/xml"
	"fmt"
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"vitrine/models"
)

type sitemapURL struct {
	Loc        string `xml:"loc"`
	ChangeFreq string `xml:"changefreq"`
	Priority   string `xml:"priority"`
}

type sitemapURLSet struct {
	XMLName xml.Name     `xml:"urlset"`
	Xmlns   string       `xml:"xmlns,attr"`
	URLs    []sitemapURL `xml:"url"`
}

const sitemapXmlns = "http://www.sitemaps.org/schemas/sitemap/0.9"

func (impl *ServerImpl) staticSitemapURLs() []sitemapURL {
	base := impl.config.SiteURL
	return []sitemapURL{
		{Loc: base + "/", ChangeFreq: "weekly", Priority: "1.0"},
		{Loc: base + "/cars", ChangeFreq: "daily", Priority: "0.9"},
		{Loc: base + "/mentions-legales", ChangeFreq: "yearly", Priority: "0.3"},
		{Loc: base + "/politique-de-confidentialite", ChangeFreq: "yearly", Priority: "0.3"},
	}
}

func writeSitemap(c *gin.Context, status int, set sitemapURLSet) {
	data, err := xml.MarshalIndent(set, "", "  ")
	if err != nil {
		// a marshal failure on these fixed structs cannot really happen
		c.String(http.StatusInternalServerError, "")
		return
	}
	c.Data(status, "application/xml; charset=utf-8", append([]byte(xml.Header), data...))
}

// Sitemap over the static pages plus one entry per listing. A query failure
// degrades to the minimal static sitemap with a 500 so crawlers retry.
// (GET /sitemap.xml)
func (impl *ServerImpl) GetSitemap(c *gin.Context) {
	const op = "GetSitemap"
	set := sitemapURLSet{Xmlns: sitemapXmlns, URLs: impl.staticSitemapURLs()}

	var ids []uuid.UUID
	result := impl.db.WithContext(c.Request.Context()).Model(&models.Vehicle{}).Order("created_at ASC").Pluck("id", &ids)
	if result.Error != nil {
		slog.Error("Fail to list vehicle ids for sitemap", slog.String("op", op), slog.Any("error", fmt.Errorf("[%s] err=%w", op, result.Error)))
		writeSitemap(c, http.StatusInternalServerError, set)
		return
	}
	for _, id := range ids {
		set.URLs = append(set.URLs, sitemapURL{
			Loc:        impl.config.SiteURL + "/cars/" + id.String(),
			ChangeFreq: "weekly",
			Priority:   "0.8",
		})
	}
	writeSitemap(c, http.StatusOK, set)
}
