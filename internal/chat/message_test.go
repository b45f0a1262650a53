package chat

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/monetalab/fincoach/pkg/llm"
)

func TestAddMessages_Append(t *testing.T) {
	existing := []Message{NewHuman("hi")}
	incoming := []Message{NewAI("hello"), NewHuman("how are you?")}

	merged := AddMessages(existing, incoming)

	require.Len(t, merged, 3)
	assert.Equal(t, "hi", merged[0].Content)
	assert.Equal(t, "hello", merged[1].Content)
	assert.Len(t, existing, 1) // input untouched
}

func TestAddMessages_ReplaceByID(t *testing.T) {
	placeholder := Message{ID: "msg-1", Role: RoleAI, Content: "partial"}
	existing := []Message{NewHuman("hi"), placeholder}

	final := Message{ID: "msg-1", Role: RoleAI, Content: "partial plus the rest"}
	merged := AddMessages(existing, []Message{final})

	require.Len(t, merged, 2)
	assert.Equal(t, "partial plus the rest", merged[1].Content)
	assert.Equal(t, "partial", existing[1].Content)
}

func TestAddMessages_ReplaceThenAppendSameBatch(t *testing.T) {
	existing := []Message{{ID: "a", Role: RoleAI, Content: "old"}}

	merged := AddMessages(existing, []Message{
		{ID: "a", Role: RoleAI, Content: "new"},
		{ID: "b", Role: RoleHuman, Content: "next"},
		{ID: "b", Role: RoleHuman, Content: "next edited"},
	})

	require.Len(t, merged, 2)
	assert.Equal(t, "new", merged[0].Content)
	assert.Equal(t, "next edited", merged[1].Content)
}

func TestToLLM_RoleMapping(t *testing.T) {
	messages := []Message{
		NewHuman("question"),
		{ID: "ai-1", Role: RoleAI, Content: "", ToolCalls: []llm.ToolCall{{ID: "call-1", Name: "tool"}}},
		NewTool("result", "call-1"),
	}

	out := ToLLM(messages)

	require.Len(t, out, 3)
	assert.Equal(t, llm.RoleUser, out[0].Role)
	assert.Equal(t, llm.RoleAssistant, out[1].Role)
	assert.Equal(t, "call-1", out[1].ToolCalls[0].ID)
	assert.Equal(t, llm.RoleTool, out[2].Role)
	assert.Equal(t, "call-1", out[2].ToolCallID)
}

func TestLastAI(t *testing.T) {
	_, ok := LastAI([]Message{NewHuman("hi")})
	assert.False(t, ok)

	messages := []Message{
		NewHuman("hi"),
		NewAI("first"),
		NewHuman("again"),
		NewAI("second"),
		NewTool("result", "call-1"),
	}
	last, ok := LastAI(messages)
	require.True(t, ok)
	assert.Equal(t, "second", last.Content)
}

func TestCoalesce(t *testing.T) {
	oldVal, newVal := 1, 2
	assert.Equal(t, &newVal, Coalesce(&oldVal, &newVal))
	assert.Equal(t, &oldVal, Coalesce(&oldVal, nil))
	assert.Nil(t, Coalesce[int](nil, nil))

	assert.Equal(t, "kept", CoalesceString("kept", ""))
	assert.Equal(t, "wins", CoalesceString("kept", "wins"))

	assert.Equal(t, []string{"a"}, CoalesceSlice([]string{"a"}, nil))
	assert.Equal(t, []string{"b"}, CoalesceSlice([]string{"a"}, []string{"b"}))
}

func TestThreadLocks_SerializesSameThread(t *testing.T) {
	var locks ThreadLocks

	unlock := locks.Lock("t-1")
	acquired := make(chan struct{})
	go func() {
		inner := locks.Lock("t-1")
		close(acquired)
		inner()
	}()

	select {
	case <-acquired:
		t.Fatal("second lock acquired while first still held")
	default:
	}

	// A different thread is not blocked.
	other := locks.Lock("t-2")
	other()

	unlock()
	<-acquired
}
