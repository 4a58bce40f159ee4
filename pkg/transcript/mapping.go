package transcript

import (
	openai "github.com/openai/openai-go/v3"
)

func newSessionFromMessages(messages []openai.ChatCompletionMessageParamUnion) *Session {
	var session Session

	for _, m := range messages {
		var msg Message
		switch {
		case m.OfAssistant != nil:
			msg = Message{
				Role:      "assistant",
				Content:   m.OfAssistant.Content.OfString.String(),
				ToolCalls: newToolCallsFromParams(m.OfAssistant.ToolCalls),
			}
		case m.OfSystem != nil:
			msg = Message{Role: "system", Content: m.OfSystem.Content.OfString.String()}
		case m.OfTool != nil:
			msg = Message{
				Role:       "tool",
				Content:    m.OfTool.Content.OfString.String(),
				ToolCallID: m.OfTool.ToolCallID,
			}
		case m.OfUser != nil:
			msg = Message{Role: "user", Content: m.OfUser.Content.OfString.String()}
		default:
			continue
		}
		session.Messages = append(session.Messages, msg)
	}

	return &session
}

func newToolCallsFromParams(calls []openai.ChatCompletionMessageToolCallUnionParam) []ToolCall {
	var toolCalls []ToolCall
	for _, call := range calls {
		if call.OfFunction == nil {
			continue
		}
		toolCalls = append(toolCalls, ToolCall{
			ID:        call.OfFunction.ID,
			Name:      call.OfFunction.Function.Name,
			Arguments: call.OfFunction.Function.Arguments,
		})
	}
	return toolCalls
}

func (s *Session) toMessages() []openai.ChatCompletionMessageParamUnion {
	var messages []openai.ChatCompletionMessageParamUnion

	for _, m := range s.Messages {
		var msg openai.ChatCompletionMessageParamUnion
		switch m.Role {
		case "assistant":
			msg = openai.AssistantMessage(m.Content)
			msg.OfAssistant.ToolCalls = newToolCallParams(m.ToolCalls)
		case "system":
			msg = openai.SystemMessage(m.Content)
		case "tool":
			msg = openai.ToolMessage(m.Content, m.ToolCallID)
		case "user":
			msg = openai.UserMessage(m.Content)
		default:
			continue
		}
		messages = append(messages, msg)
	}

	return messages
}

func newToolCallParams(calls []ToolCall) []openai.ChatCompletionMessageToolCallUnionParam {
	var toolCalls []openai.ChatCompletionMessageToolCallUnionParam
	for _, call := range calls {
		toolCalls = append(toolCalls, openai.ChatCompletionMessageToolCallUnionParam{
			OfFunction: &openai.ChatCompletionMessageFunctionToolCallParam{
				ID: call.ID,
				Function: openai.ChatCompletionMessageFunctionToolCallFunctionParam{
					Name:      call.Name,
					Arguments: call.Arguments,
				},
			},
		})
	}
	return toolCalls
}
