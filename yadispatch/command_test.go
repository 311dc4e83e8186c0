package yadispatch_test

import (
	"context"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/YaCodeDev/GoYaCodeDevDispatch/yadispatch"
	"github.com/YaCodeDev/GoYaCodeDevDispatch/yaerrors"
)

func noop(context.Context, *yadispatch.HandlerData, yadispatch.Update) yaerrors.Error {
	return nil
}

func mustCommand(t *testing.T, command string, opts ...yadispatch.HandlerOption) *yadispatch.CommandHandler {
	t.Helper()

	h, err := yadispatch.NewCommandHandler(command, noop, opts...)
	require.Nil(t, err)

	return h
}

func TestCommandHandler_Match(t *testing.T) {
	h := mustCommand(t, "start")

	tests := []struct {
		name    string
		update  yadispatch.Update
		matched bool
		args    []string
	}{
		{name: "with args", update: "/start a b", matched: true, args: []string{"a", "b"}},
		{name: "no args", update: "/start", matched: true, args: []string{}},
		{name: "consecutive spaces", update: "/start a  b", matched: true, args: []string{"a", "", "b"}},
		{name: "trailing space", update: "/start ", matched: true, args: []string{""}},
		{name: "other command", update: "/stop a", matched: false},
		{name: "longer command", update: "/starting", matched: false},
		{name: "case sensitive", update: "/Start", matched: false},
		{name: "no prefix", update: "start a", matched: false},
		{name: "prefix only", update: "/", matched: false},
		{name: "empty text", update: "", matched: false},
		{name: "not a string", update: 42, matched: false},
		{name: "nil update", update: nil, matched: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result, matched, err := h.Match(context.Background(), tt.update)
			require.Nil(t, err)
			require.Equal(t, tt.matched, matched)

			if !tt.matched {
				assert.Nil(t, result)

				return
			}

			args, ok := result.([]string)
			require.True(t, ok)
			require.NotNil(t, args)

			if diff := cmp.Diff(tt.args, args); diff != "" {
				t.Fatalf("args mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

func TestCommandHandler_NonPrefixedTextNeverMatches(t *testing.T) {
	h := mustCommand(t, "start")

	for _, text := range []string{"start", " /start", "hello /start", "!start", "\\start"} {
		_, matched, err := h.Match(context.Background(), text)
		require.Nil(t, err)
		assert.False(t, matched, text)
	}
}

func TestCommandHandler_EnrichOverwritesArgs(t *testing.T) {
	h := mustCommand(t, "start")
	data := &yadispatch.HandlerData{Args: []string{"stale"}}

	result, matched, err := h.Match(context.Background(), "/start")
	require.Nil(t, err)
	require.True(t, matched)

	h.Enrich(data, "/start", result)

	assert.NotNil(t, data.Args)
	assert.Empty(t, data.Args)
}

func TestCommandHandler_CustomPrefix(t *testing.T) {
	h := mustCommand(t, "ping", yadispatch.WithPrefix('!'))

	_, matched, _ := h.Match(context.Background(), "!ping")
	assert.True(t, matched)

	_, matched, _ = h.Match(context.Background(), "/ping")
	assert.False(t, matched)
	assert.Equal(t, "!", h.Prefix())
}

func TestCommandHandler_PrefixFromDefaults(t *testing.T) {
	defaults := yadispatch.Defaults{Blocking: false, CommandPrefix: '#'}
	h := mustCommand(t, "tag", yadispatch.WithDefaults(defaults))

	_, matched, _ := h.Match(context.Background(), "#tag x")
	assert.True(t, matched)
	assert.False(t, h.Blocking())

	explicit := mustCommand(t, "tag", yadispatch.WithDefaults(defaults), yadispatch.WithPrefix('$'))
	_, matched, _ = explicit.Match(context.Background(), "$tag")
	assert.True(t, matched)
}

func TestCommandHandler_MultiByteCommand(t *testing.T) {
	h := mustCommand(t, "старт")

	result, matched, err := h.Match(context.Background(), "/старт привет")
	require.Nil(t, err)
	require.True(t, matched)
	assert.Equal(t, []string{"привет"}, result)
}

func TestNewCommandHandler_ConfigurationErrors(t *testing.T) {
	tests := []struct {
		name     string
		command  string
		callback yadispatch.Callback
		opts     []yadispatch.HandlerOption
	}{
		{name: "empty command", command: "", callback: noop},
		{name: "space in command", command: "start now", callback: noop},
		{name: "nil callback", command: "start", callback: nil},
		{name: "space prefix", command: "start", callback: noop, opts: []yadispatch.HandlerOption{yadispatch.WithPrefix(' ')}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h, err := yadispatch.NewCommandHandler(tt.command, tt.callback, tt.opts...)
			require.NotNil(t, err)
			assert.Nil(t, h)
			assert.ErrorIs(t, err, yadispatch.ErrConfiguration)
			assert.Equal(t, 400, err.Code())
		})
	}
}

func TestCommandHandler_String(t *testing.T) {
	assert.Equal(t, "CommandHandler(/start)", mustCommand(t, "start").String())
	assert.Equal(t, "CommandHandler(/start)", yadispatch.HandlerName(mustCommand(t, "start")))
}
