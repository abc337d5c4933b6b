package main

import (
	"encoding/xml"
	"fmt"
	"net/http"
	"net/url"

	"github.com/go-chi/chi/v5"

	"github.com/Adeboye22/user-fuelup/guard"
	"github.com/Adeboye22/user-fuelup/stores"
)

var serviceAreas = []string{"Lekki Phase 1", "Lekki Phase 2"}

type fuelPackage struct {
	Name        string
	Description string
	Features    []string
}

var packages = []fuelPackage{
	{Name: "Petrol (PMS)", Description: "Premium motor spirit delivered to your car, home or office.", Features: []string{"Minimum 10 liters", "Same-day delivery", "Metered dispensing"}},
	{Name: "Diesel (AGO)", Description: "Automotive gas oil for generators, trucks and equipment.", Features: []string{"Bulk orders welcome", "Scheduled refills", "Quality assured"}},
	{Name: "Kerosene (DPK)", Description: "Household kerosene delivered safely to your doorstep.", Features: []string{"Safe containers", "Flexible quantities", "Fast delivery"}},
}

func (a *App) home(w http.ResponseWriter, r *http.Request) {
	a.render(w, r, http.StatusOK, "home", view{
		Title: "Fuel delivered to your doorstep",
		Data: struct {
			Areas    []string
			Packages []fuelPackage
		}{serviceAreas, packages},
	})
}

// setTheme stores the colour scheme and goes back to the page it came from.
func (a *App) setTheme(w http.ResponseWriter, r *http.Request) {
	sess := guard.SessionFrom(r.Context())
	switch chi.URLParam(r, "mode") {
	case stores.ThemeLight:
		sess.Theme = stores.ThemeLight
	default:
		sess.Theme = stores.ThemeDark
	}
	http.Redirect(w, r, backTo(r), http.StatusSeeOther)
}

// backTo is the same-site path of the referring page, or "/".
func backTo(r *http.Request) string {
	ref, err := url.Parse(r.Referer())
	if err != nil || ref.Path == "" || (ref.Host != "" && ref.Host != r.Host) {
		return "/"
	}
	return ref.RequestURI()
}

func (a *App) robots(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	fmt.Fprintf(w, "User-agent: *\nAllow: /\nDisallow: /dashboard\n\nSitemap: %s/sitemap.xml\n", a.cfg.SiteURL)
}

var sitemapRoutes = []struct {
	Path     string
	Priority string
}{
	{"/", "1.0"},
	{"/signin", "0.8"},
	{"/signup", "0.8"},
	{"/forgot-password", "0.5"},
}

type sitemapURL struct {
	Loc        string `xml:"loc"`
	ChangeFreq string `xml:"changefreq"`
	Priority   string `xml:"priority"`
}

type urlSet struct {
	XMLName xml.Name     `xml:"urlset"`
	XMLNS   string       `xml:"xmlns,attr"`
	URLs    []sitemapURL `xml:"url"`
}

func (a *App) sitemap(w http.ResponseWriter, r *http.Request) {
	set := urlSet{XMLNS: "http://www.sitemaps.org/schemas/sitemap/0.9"}
	for _, route := range sitemapRoutes {
		set.URLs = append(set.URLs, sitemapURL{Loc: a.cfg.SiteURL + route.Path, ChangeFreq: "weekly", Priority: route.Priority})
	}
	w.Header().Set("Content-Type", "application/xml; charset=utf-8")
	w.Write([]byte(xml.Header))
	enc := xml.NewEncoder(w)
	enc.Indent("", "  ")
	if err := enc.Encode(set); err != nil {
		a.log.Error("encode sitemap", "err", err)
	}
}
