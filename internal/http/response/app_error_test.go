package response

import (
	"errors"
	"testing"
)

func TestWrapErrorKeepsCodeAndMessage(t *testing.T) {
	cause := errors.New("record not found")
	appErr := WrapError(CodeNotFound, "购买记录不存在", cause)

	if appErr.Code != CodeNotFound {
		t.Fatalf("code want %d got %d", CodeNotFound, appErr.Code)
	}
	if appErr.Message != "购买记录不存在" {
		t.Fatalf("message want 购买记录不存在 got %s", appErr.Message)
	}
	if appErr.Error() != "购买记录不存在: record not found" {
		t.Fatalf("error string got %s", appErr.Error())
	}
}

func TestWrapErrorPreservesErrorChain(t *testing.T) {
	sentinel := errors.New("out of stock")
	appErr := WrapError(CodeBadRequest, "商品库存不足", sentinel)

	if !errors.Is(appErr, sentinel) {
		t.Fatalf("wrapped sentinel should be reachable via errors.Is")
	}
	if errors.Unwrap(appErr) != sentinel {
		t.Fatalf("unwrap should return the cause")
	}
}

func TestWrapErrorWithoutCause(t *testing.T) {
	appErr := WrapError(CodeBadRequest, "请求参数无效", nil)

	if appErr.Error() != "请求参数无效" {
		t.Fatalf("error string want bare message got %s", appErr.Error())
	}
	if errors.Unwrap(appErr) != nil {
		t.Fatalf("unwrap without cause want nil")
	}
}
