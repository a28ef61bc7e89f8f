// Package drupal speaks the node JSON API of a Drupal-era marketing
// site: form-based login, paginated node listings, and the two page
// execution strategies used to drain them.
package drupal

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http/cookiejar"
	"net/url"
	"strconv"
	"strings"
	"sync"
	"time"

	"catalog-backend/lib/telemetry"

	cloudflarebp "github.com/DaRealFreak/cloudflare-bp-go"
	"github.com/PuerkitoBio/goquery"
	"github.com/go-resty/resty/v2"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/codes"
)

var tracer = otel.Tracer("lib/drupal")

var ErrLoginFailed = fmt.Errorf("failed to login to the marketing site")

type ClientOptions struct {
	BaseUrl  string
	Username string
	Password string
}

// Client is an authenticated marketing-site session. The login POST
// happens once, on first use, guarded by an initialized flag; the
// underlying cookie-bearing session is safe to share across
// concurrent GETs.
type Client struct {
	BaseUrl *url.URL
	Http    *resty.Client

	username string
	password string

	mu       sync.Mutex
	loggedIn bool
}

func NewClient(ctx context.Context, opts ClientOptions) (*Client, error) {
	baseUrl, err := url.Parse(opts.BaseUrl)
	if err != nil {
		return nil, err
	}

	client := resty.New()
	client.SetBaseURL(opts.BaseUrl)
	jar, err := cookiejar.New(nil)
	if err != nil {
		return nil, err
	}
	client.SetCookieJar(jar)
	client.GetClient().Transport = cloudflarebp.AddCloudFlareByPass(client.GetClient().Transport)

	client.SetHeader("user-agent", "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/123.0.0.0 Safari/537.36")
	client.SetRedirectPolicy(resty.DomainCheckRedirectPolicy(baseUrl.Hostname()))
	client.SetTimeout(time.Second * 30)

	telemetry.InstrumentResty(client, "drupal/http")

	return &Client{
		BaseUrl:  baseUrl,
		Http:     client,
		username: opts.Username,
		password: opts.Password,
	}, nil
}

// Login posts the user login form. Success requires a 200 and the
// final redirect landing on the user's profile page; anything else is
// a fatal ErrLoginFailed.
func (c *Client) Login(ctx context.Context) error {
	ctx, span := tracer.Start(ctx, "client:Login")
	defer span.End()

	res, err := c.Http.R().
		SetContext(ctx).
		SetFormData(map[string]string{
			"name":    c.username,
			"pass":    c.password,
			"form_id": "user_login",
			"op":      "Log in",
		}).
		Post("/user")
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "failed to make login request")
		return err
	}

	expected := c.BaseUrl.JoinPath("users", c.username).String()
	final := res.Request.URL
	if res.RawResponse != nil && res.RawResponse.Request != nil {
		final = res.RawResponse.Request.URL.String()
	}

	if res.StatusCode() != 200 || final != expected {
		span.SetStatus(codes.Error, ErrLoginFailed.Error())
		if msg := loginFailureMessage(res.Body()); msg != "" {
			return fmt.Errorf("%w: status %d, landed on %s: %s", ErrLoginFailed, res.StatusCode(), final, msg)
		}
		return fmt.Errorf("%w: status %d, landed on %s", ErrLoginFailed, res.StatusCode(), final)
	}
	return nil
}

// loginFailureMessage digs the rendered error flash out of the login
// form page, when there is one.
func loginFailureMessage(body []byte) string {
	doc, err := goquery.NewDocumentFromReader(bytes.NewReader(body))
	if err != nil {
		return ""
	}
	text := doc.Find(".messages--error, .messages.error").First().Text()
	return strings.Join(strings.Fields(text), " ")
}

func (c *Client) ensureLogin(ctx context.Context) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.loggedIn {
		return nil
	}
	if err := c.Login(ctx); err != nil {
		return err
	}
	c.loggedIn = true
	return nil
}

// NodeQuery describes one node listing to drain.
type NodeQuery struct {
	Type string
	// controls which referenced entities the API inlines, eg.
	// "file" or "file,taxonomy_term"
	LoadEntityRefs string
	MaxDepth       int
}

func (q NodeQuery) params(page int) map[string]string {
	maxDepth := q.MaxDepth
	if maxDepth == 0 {
		maxDepth = 2
	}
	loadRefs := q.LoadEntityRefs
	if loadRefs == "" {
		loadRefs = "file"
	}
	return map[string]string{
		"type":             q.Type,
		"max-depth":        strconv.Itoa(maxDepth),
		"load-entity-refs": loadRefs,
		"page":             strconv.Itoa(page),
	}
}

// Page is one decoded node listing response.
type Page struct {
	URL  string
	List []map[string]any

	// pagination links; empty when absent
	First string
	Last  string
	Next  string
}

type pageBody struct {
	List  []map[string]any `json:"list"`
	First string           `json:"first"`
	Last  string           `json:"last"`
	Next  string           `json:"next"`
}

// FetchPage requests one page of the node listing. Any non-200
// response is an error carrying the URL, status, and body.
func (c *Client) FetchPage(ctx context.Context, query NodeQuery, page int) (*Page, error) {
	ctx, span := tracer.Start(ctx, "client:FetchPage")
	defer span.End()

	if err := c.ensureLogin(ctx); err != nil {
		return nil, err
	}

	res, err := c.Http.R().
		SetContext(ctx).
		SetQueryParams(query.params(page)).
		Get("/node.json")
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "failed to fetch page")
		return nil, err
	}
	if res.StatusCode() != 200 {
		err := fmt.Errorf(
			"failed to retrieve data from %s: status code: %d, body: %s",
			res.Request.URL, res.StatusCode(), res.String(),
		)
		span.SetStatus(codes.Error, err.Error())
		return nil, err
	}

	var body pageBody
	if err := json.Unmarshal(res.Body(), &body); err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "failed to decode page body")
		return nil, fmt.Errorf("failed to decode %s: %w", res.Request.URL, err)
	}

	return &Page{
		URL:   res.Request.URL,
		List:  body.List,
		First: body.First,
		Last:  body.Last,
		Next:  body.Next,
	}, nil
}
