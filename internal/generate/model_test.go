package generate

import (
	"testing"

	"github.com/cloudwego/eino/components/model"
)

func TestChatModelOptionsCarryPerCallValues(t *testing.T) {
	callOpts := chatModelOptions(Options{MaxTokens: 512, Temperature: 0.7})
	common := model.GetCommonOptions(&model.Options{}, callOpts...)

	if common.MaxTokens == nil || *common.MaxTokens != 512 {
		t.Fatalf("max tokens not propagated: %+v", common.MaxTokens)
	}
	if common.Temperature == nil || *common.Temperature != float32(0.7) {
		t.Fatalf("temperature not propagated: %+v", common.Temperature)
	}
}

func TestChatModelOptionsZeroValuesStayUnset(t *testing.T) {
	if callOpts := chatModelOptions(Options{}); len(callOpts) != 0 {
		t.Fatalf("expected no call options for zero values, got %d", len(callOpts))
	}
}
