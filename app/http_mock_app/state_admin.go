package http_mock_app

import (
	"net/http"

	rf "github.com/go-chassis/go-chassis/v2/server/restful"
)

type templateValidateResponse struct {
	Valid  bool     `json:"valid"`
	Errors []string `json:"errors"`
}

func (c *MockController) ValidateTemplate(b *rf.Context) (int, any, error) {
	var req TemplateValidateRequest
	if err := readEntity(b, &req); err != nil {
		return 0, nil, err
	}

	out := templateValidateResponse{Errors: []string{}}
	for _, err := range c.ResponseService.ValidateTemplate(req.Template) {
		out.Errors = append(out.Errors, err.Error())
	}
	out.Valid = len(out.Errors) == 0
	return http.StatusOK, out, nil
}

func (c *MockController) GetState(b *rf.Context) (int, any, error) {
	snap, err := c.StateService.Snapshot(b.Ctx)
	if err != nil {
		return 0, nil, err
	}
	return http.StatusOK, snap, nil
}

func (c *MockController) ResetState(b *rf.Context) (int, any, error) {
	if err := c.StateService.Reset(b.Ctx); err != nil {
		return 0, nil, err
	}
	return http.StatusNoContent, nil, nil
}

func (c *MockController) SetStateData(b *rf.Context) (int, any, error) {
	var req StateValueRequest
	if err := readEntity(b, &req); err != nil {
		return 0, nil, err
	}
	if err := c.StateService.SetData(b.Ctx, b.ReadPathParameter("name"), req.Value); err != nil {
		return 0, nil, err
	}
	return http.StatusOK, map[string]string{"message": "success"}, nil
}

func (c *MockController) AppendStateList(b *rf.Context) (int, any, error) {
	var req StateValueRequest
	if err := readEntity(b, &req); err != nil {
		return 0, nil, err
	}
	if err := c.StateService.AppendList(b.Ctx, b.ReadPathParameter("name"), req.Value); err != nil {
		return 0, nil, err
	}
	return http.StatusOK, map[string]string{"message": "success"}, nil
}

// IncrementCounter delta 缺省为 1
func (c *MockController) IncrementCounter(b *rf.Context) (int, any, error) {
	var req CounterIncrementRequest
	if b.ReadRequest().ContentLength != 0 {
		if err := readEntity(b, &req); err != nil {
			return 0, nil, err
		}
	}
	delta := 1.0
	if req.Delta != nil {
		delta = *req.Delta
	}

	value, err := c.StateService.IncrementCounter(b.Ctx, b.ReadPathParameter("name"), delta)
	if err != nil {
		return 0, nil, err
	}
	return http.StatusOK, map[string]float64{"value": value}, nil
}
