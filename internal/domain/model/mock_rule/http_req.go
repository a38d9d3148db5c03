package model

import (
	"bytes"
	"encoding/json"
	"io"
	"net"
	"net/http"
	"strings"
)

// RequestContext 单次请求的只读上下文，由匹配器和模板引擎消费
type RequestContext struct {
	Method      string
	RawPath     string
	Path        string // 已解码并去掉项目段
	Project     string
	Headers     map[string]string // key 小写
	Query       map[string]string
	RawBody     []byte
	Body        any // JSON 解析结果，非 JSON 时为 nil
	ClientAddr  string
	Environment string
	EnvVars     map[string]any
	Globals     map[string]any
	State       *StateSnapshot
}

// NewHTTPRequest 从 net/http 请求构造上下文，预读请求体并回填
func NewHTTPRequest(r *http.Request) *RequestContext {
	var body []byte
	if r.Body != nil {
		body, _ = io.ReadAll(r.Body)
		r.Body.Close()
		r.Body = io.NopCloser(bytes.NewReader(body))
	}

	headers := make(map[string]string, len(r.Header))
	for k, v := range r.Header {
		headers[strings.ToLower(k)] = strings.Join(v, ",")
	}
	if r.Host != "" {
		if _, ok := headers["host"]; !ok {
			headers["host"] = r.Host
		}
	}

	query := make(map[string]string)
	for k, v := range r.URL.Query() {
		if len(v) > 0 {
			query[k] = v[0]
		}
	}

	rawPath := r.URL.EscapedPath()
	project, endpoint := SplitProjectPath(rawPath)

	req := &RequestContext{
		Method:     strings.ToUpper(r.Method),
		RawPath:    rawPath,
		Path:       endpoint,
		Project:    project,
		Headers:    headers,
		Query:      query,
		RawBody:    body,
		ClientAddr: clientAddr(r),
		State:      &StateSnapshot{},
	}
	req.Body = parseBody(body)
	return req
}

func clientAddr(r *http.Request) string {
	if fwd := r.Header.Get("X-Forwarded-For"); fwd != "" {
		first, _, _ := strings.Cut(fwd, ",")
		return strings.TrimSpace(first)
	}
	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return host
}

func parseBody(body []byte) any {
	if len(bytes.TrimSpace(body)) == 0 {
		return nil
	}
	var parsed any
	if err := json.Unmarshal(body, &parsed); err != nil {
		return nil
	}
	return parsed
}

// DecodedPath 完整的解码后请求路径，用于 404 提示
func (c *RequestContext) DecodedPath() string {
	return DecodePath(c.RawPath)
}

// Header 大小写不敏感地读取请求头
func (c *RequestContext) Header(name string) (string, bool) {
	v, ok := c.Headers[strings.ToLower(name)]
	return v, ok
}

// BodyString returns the body as text; parsed non-string bodies are stringified as JSON.
func (c *RequestContext) BodyString() string {
	if c.Body == nil {
		return string(c.RawBody)
	}
	if s, ok := c.Body.(string); ok {
		return s
	}
	if len(c.RawBody) > 0 {
		return string(c.RawBody)
	}
	b, err := jsonMarshal(c.Body)
	if err != nil {
		return ""
	}
	return string(b)
}

// TemplateData 构造模板渲染用的根对象
func (c *RequestContext) TemplateData(params map[string]string) map[string]any {
	headers := make(map[string]any, len(c.Headers))
	for k, v := range c.Headers {
		headers[k] = v
	}
	query := make(map[string]any, len(c.Query))
	for k, v := range c.Query {
		query[k] = v
	}
	pathParams := make(map[string]any, len(params))
	for k, v := range params {
		pathParams[k] = v
	}

	body := c.Body
	if body == nil && len(c.RawBody) > 0 {
		body = string(c.RawBody)
	}

	env := make(map[string]any, len(c.EnvVars)+1)
	for k, v := range c.EnvVars {
		env[k] = v
	}
	env["name"] = c.Environment

	globals := c.Globals
	if globals == nil {
		globals = map[string]any{}
	}

	return map[string]any{
		"request": map[string]any{
			"method":   c.Method,
			"path":     c.Path,
			"fullPath": c.DecodedPath(),
			"project":  c.Project,
			"headers":  headers,
			"query":    query,
			"body":     body,
			"params":   pathParams,
			"ip":       c.ClientAddr,
		},
		"environment": env,
		"globals":     globals,
		"state":       c.State.TemplateData(),
	}
}

// jsonMarshal encodes without HTML escaping, matching what clients sent.
func jsonMarshal(v any) ([]byte, error) {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	if err := enc.Encode(v); err != nil {
		return nil, err
	}
	return bytes.TrimRight(buf.Bytes(), "\n"), nil
}
