package response

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
)

func decodeEnvelope(t *testing.T, body []byte) Response {
	t.Helper()
	var resp Response
	if err := json.Unmarshal(body, &resp); err != nil {
		t.Fatalf("unmarshal envelope failed: %v", err)
	}
	return resp
}

func TestSuccessWithMsgOverridesDefaultMessage(t *testing.T) {
	gin.SetMode(gin.TestMode)

	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	SuccessWithMsg(c, "设置已更新", nil)

	if w.Code != http.StatusOK {
		t.Fatalf("status want 200 got %d", w.Code)
	}
	resp := decodeEnvelope(t, w.Body.Bytes())
	if resp.StatusCode != CodeOK {
		t.Fatalf("status_code want %d got %d", CodeOK, resp.StatusCode)
	}
	if resp.Msg != "设置已更新" {
		t.Fatalf("msg want 设置已更新 got %s", resp.Msg)
	}
}

func TestNotFoundUsesEnvelopeWithRequestID(t *testing.T) {
	gin.SetMode(gin.TestMode)

	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Set("request_id", "req-404")
	NotFound(c, "接口不存在")

	if w.Code != http.StatusOK {
		t.Fatalf("status want 200 got %d", w.Code)
	}
	resp := decodeEnvelope(t, w.Body.Bytes())
	if resp.StatusCode != CodeNotFound {
		t.Fatalf("status_code want %d got %d", CodeNotFound, resp.StatusCode)
	}
	data, ok := resp.Data.(map[string]interface{})
	if !ok {
		t.Fatalf("data should carry request id, got %T", resp.Data)
	}
	if data["request_id"] != "req-404" {
		t.Fatalf("request_id want req-404 got %v", data["request_id"])
	}
}
