package yadispatch_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/YaCodeDev/GoYaCodeDevDispatch/threadsafemap"
	"github.com/YaCodeDev/GoYaCodeDevDispatch/yadispatch"
)

func TestHandlerData_SetWithoutBag(t *testing.T) {
	data := &yadispatch.HandlerData{}

	assert.False(t, data.Set("key", 1))
	assert.Nil(t, data.Data)

	_, ok := data.Get("key")
	assert.False(t, ok)
}

func TestHandlerData_SetSharesBag(t *testing.T) {
	bag := threadsafemap.NewThreadSafeMap[string, any]()
	first := &yadispatch.HandlerData{Data: bag}
	second := &yadispatch.HandlerData{Data: bag}

	assert.True(t, first.Set("key", "value"))

	got, ok := second.Get("key")
	assert.True(t, ok)
	assert.Equal(t, "value", got)
}
