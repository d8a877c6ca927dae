package scraper

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"os"
	"strings"

	"github.com/PuerkitoBio/goquery"
)

// Login authenticates against the site's WordPress login form and stores the
// session cookies in the client's jar.
//
// Steps: GET the login form to pick up cookies and hidden inputs, POST the
// credentials with the discovered fields, then check for a
// wordpress_logged_in cookie or a redirect onto the daily page. When
// /wp-login.php 404s, the homepage is scanned for a login link instead.
func (c *Client) Login(ctx context.Context, username, password string) (bool, error) {
	loginURL := c.baseURL + "/wp-login.php"

	formHTML, err := c.get(ctx, loginURL)
	if err != nil {
		if alt := c.discoverLoginLink(ctx); alt != "" {
			loginURL = c.absoluteURL(alt)
			c.logger.Info("Using discovered login path", "url", loginURL)
			formHTML, err = c.get(ctx, loginURL)
		}
		if err != nil {
			return false, fmt.Errorf("fetch login form: %w", err)
		}
	}

	form := collectFormInputs(formHTML)
	form.Set("log", username)
	form.Set("pwd", password)
	if form.Get("rememberme") == "" {
		form.Set("rememberme", "forever")
	}
	if form.Get("redirect_to") == "" {
		form.Set("redirect_to", c.baseURL+"/defi-du-jour/")
	}
	if form.Get("testcookie") == "" {
		form.Set("testcookie", "1")
	}
	if form.Get("wp-submit") == "" {
		form.Set("wp-submit", "Log In")
	}

	finalURL, body, err := c.postForm(ctx, loginURL, form, loginURL)
	if err != nil {
		return false, fmt.Errorf("submit login form: %w", err)
	}

	if c.hasSessionCookie() {
		return true, nil
	}
	if strings.HasSuffix(finalURL, "/defi-du-jour/") {
		return true, nil
	}
	// Last resort: logged-in pages carry a logout link.
	lower := strings.ToLower(body)
	if strings.Contains(lower, "déconnexion") || strings.Contains(lower, "logout") {
		return true, nil
	}
	return false, nil
}

// hasSessionCookie reports whether the jar holds a WordPress session cookie
// for the base URL.
func (c *Client) hasSessionCookie() bool {
	u, err := url.Parse(c.baseURL)
	if err != nil {
		return false
	}
	for _, ck := range c.httpClient.Jar.Cookies(u) {
		if strings.HasPrefix(ck.Name, "wordpress_logged_in") {
			return true
		}
	}
	return false
}

// discoverLoginLink scans the homepage for a login/connexion anchor and
// returns its href, skipping in-page anchors. Empty when nothing matches.
func (c *Client) discoverLoginLink(ctx context.Context) string {
	home, err := c.get(ctx, "/")
	if err != nil {
		return ""
	}
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(home))
	if err != nil {
		return ""
	}
	keywords := []string{"connexion", "login", "identifiant", "se connecter"}
	var found string
	doc.Find("a").EachWithBreak(func(_ int, a *goquery.Selection) bool {
		text := strings.ToLower(strings.TrimSpace(a.Text()))
		href, _ := a.Attr("href")
		if href == "" || strings.HasPrefix(href, "#") {
			return true
		}
		for _, k := range keywords {
			if strings.Contains(text, k) {
				found = href
				return false
			}
		}
		return true
	})
	return found
}

// collectFormInputs gathers the name/value pairs of the login form's inputs,
// preferring form#loginform and falling back to the first form on the page.
func collectFormInputs(html string) url.Values {
	values := url.Values{}
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	if err != nil {
		return values
	}
	form := doc.Find("form#loginform").First()
	if form.Length() == 0 {
		form = doc.Find("form").First()
	}
	form.Find("input").Each(func(_ int, inp *goquery.Selection) {
		name, ok := inp.Attr("name")
		if !ok || name == "" {
			return
		}
		val, _ := inp.Attr("value")
		values.Set(name, val)
	})
	return values
}

// SaveCookies persists the jar's cookies for the base URL to a JSON file so
// a later run can reuse the session.
func (c *Client) SaveCookies(path string) error {
	u, err := url.Parse(c.baseURL)
	if err != nil {
		return fmt.Errorf("parse base URL: %w", err)
	}
	data := map[string]string{}
	for _, ck := range c.httpClient.Jar.Cookies(u) {
		data[ck.Name] = ck.Value
	}
	raw, err := json.MarshalIndent(data, "", "  ")
	if err != nil {
		return fmt.Errorf("encode cookies: %w", err)
	}
	if err := os.WriteFile(path, raw, 0o600); err != nil {
		return fmt.Errorf("write cookies file: %w", err)
	}
	return nil
}

// LoadCookies restores cookies from a JSON file if it exists.
func (c *Client) LoadCookies(path string) error {
	raw, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil
		}
		return fmt.Errorf("read cookies file: %w", err)
	}
	var data map[string]string
	if err := json.Unmarshal(raw, &data); err != nil {
		return fmt.Errorf("decode cookies file: %w", err)
	}
	c.setCookies(data)
	return nil
}

// SetCookieHeader parses a raw "Cookie:" header value and sets each pair,
// for sessions captured from a browser.
func (c *Client) SetCookieHeader(header string) {
	data := map[string]string{}
	for _, part := range strings.Split(header, ";") {
		part = strings.TrimSpace(part)
		if name, value, ok := strings.Cut(part, "="); ok {
			data[strings.TrimSpace(name)] = strings.TrimSpace(value)
		}
	}
	c.setCookies(data)
}

func (c *Client) setCookies(pairs map[string]string) {
	u, err := url.Parse(c.baseURL)
	if err != nil {
		return
	}
	cookies := make([]*http.Cookie, 0, len(pairs))
	for name, value := range pairs {
		cookies = append(cookies, &http.Cookie{Name: name, Value: value, Path: "/"})
	}
	c.httpClient.Jar.SetCookies(u, cookies)
}
