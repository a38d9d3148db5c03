package model

import (
	"bytes"
	"encoding/json"
	"fmt"
	"math/rand/v2"
	"net/http"
	"time"
)

// 实现 ResponseInfo 接口的具体类型
type BaseResponse struct {
	status  int
	headers map[string]string
	body    []byte
	delay   time.Duration
}

var _ ResponseInfo = (*BaseResponse)(nil)

func NewBaseResponse(status int, headers map[string]string, body []byte, delay time.Duration) *BaseResponse {
	return &BaseResponse{status: status, headers: headers, body: body, delay: delay}
}

func (r *BaseResponse) GetStatus() int {
	if r.status == 0 { // 默认状态码处理
		return http.StatusOK
	}
	return r.status
}

func (r *BaseResponse) GetHeaders() map[string]string {
	return r.headers
}

func (r *BaseResponse) GetBody() []byte {
	return r.body
}

func (r *BaseResponse) GetDelay() time.Duration {
	return r.delay
}

func (r *BaseResponse) String() string {
	return fmt.Sprintf("Status: %d, Headers: %v, Body: %s, Delay: %v",
		r.GetStatus(),
		r.headers,
		string(r.body),
		r.delay)
}

// NormalizeJSONBody 合法 JSON 压缩后返回（保持 key 顺序），否则原样返回
func NormalizeJSONBody(body string) ([]byte, bool) {
	trimmed := bytes.TrimSpace([]byte(body))
	if len(trimmed) == 0 || !json.Valid(trimmed) {
		return []byte(body), false
	}
	var buf bytes.Buffer
	if err := json.Compact(&buf, trimmed); err != nil {
		return []byte(body), false
	}
	return buf.Bytes(), true
}

// ResponseSpec 被选中的响应：规则自身或某个加权变体
type ResponseSpec struct {
	Name    string
	Status  int
	Headers map[string]string
	Body    string
}

// SelectResponse 按权重比例抽取一个变体；未启用或权重和为 0 时使用规则自身响应
func (r *Rule) SelectResponse(rng *rand.Rand) ResponseSpec {
	base := ResponseSpec{Status: r.Status, Headers: r.Headers, Body: r.Body}
	if !r.WeightedEnabled || len(r.WeightedResponses) == 0 {
		return base
	}

	variants := r.WeightedResponses
	if len(variants) > MaxWeightedResponses {
		variants = variants[:MaxWeightedResponses]
	}
	var total float64
	for _, v := range variants {
		if v.Weight > 0 {
			total += v.Weight
		}
	}
	if total <= 0 {
		return base
	}

	var draw float64
	if rng != nil {
		draw = rng.Float64() * total
	} else {
		draw = rand.Float64() * total
	}
	chosen := variants[len(variants)-1]
	for _, v := range variants {
		if v.Weight <= 0 {
			continue
		}
		if draw < v.Weight {
			chosen = v
			break
		}
		draw -= v.Weight
	}
	// 最后一个变体权重为 0 时回退到最后一个正权重
	if chosen.Weight <= 0 {
		for i := len(variants) - 1; i >= 0; i-- {
			if variants[i].Weight > 0 {
				chosen = variants[i]
				break
			}
		}
	}

	status := chosen.Status
	if status == 0 {
		status = r.Status
	}
	headers := chosen.Headers
	if headers == nil {
		headers = r.Headers
	}
	return ResponseSpec{Name: chosen.Name, Status: status, Headers: headers, Body: chosen.Body}
}
