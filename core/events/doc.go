// Package events defines the typed realtime event contract of the Coda voice
// assistant backend.
//
// Every frame the backend broadcasts is a JSON envelope:
//
//	{"type": "stt_result", "timestamp": 1712.5, "seq": 42, "version": "1.0", "data": {...}}
//
// Decode turns an envelope into one of the catalog events below. Frames that
// are not JSON objects, have no type, name a kind outside the catalog or lack
// a required payload field become Unknown, which keeps the raw frame and the
// reason it was not recognized. Encode is the inverse of Decode.
//
// Event kinds are grouped by the backend component that emits them:
//
// connection and system events
//
//   - ConnectionStatus (connection_status): client connection state
//     transition.
//   - SystemInfo (system_info): free-form backend information.
//   - SystemError (system_error): backend error report.
//   - SystemMetrics (system_metrics): resource usage sample.
//
// transcription events
//
//   - STTStart (stt_start): speech capture started.
//   - STTInterim (stt_interim): mutable interim transcript.
//   - STTResult (stt_result): final transcript of an utterance.
//   - STTError (stt_error): transcription failed.
//
// generation events
//
//   - LLMStart (llm_start): response generation started.
//   - LLMToken (llm_token): one streamed token.
//   - LLMResult (llm_result): complete response text.
//   - LLMError (llm_error): generation failed.
//
// synthesis events
//
//   - TTSStart (tts_start), TTSProgress (tts_progress), TTSResult
//     (tts_result), TTSError (tts_error), TTSStatus (tts_status) and TTSStop
//     (tts_stop).
//
// memory, tool and conversation events
//
//   - MemoryStore (memory_store), MemoryRetrieve (memory_retrieve),
//     MemoryUpdate (memory_update).
//   - ToolCall (tool_call), ToolResult (tool_result), ToolError (tool_error).
//   - ConversationStart (conversation_start), ConversationTurn
//     (conversation_turn), ConversationEnd (conversation_end).
//
// performance and assistant state events
//
//   - LatencyTrace (latency_trace), ComponentTiming (component_timing),
//     ComponentStats (component_stats).
//   - EmotionChange (emotion_change), StateChange (state_change).
//
// session events
//
//   - AuthChallenge (auth_challenge): the backend asks for a token echo.
//   - AuthResult (auth_result): outcome of authentication.
//   - Replay (replay): recently broadcast events resent on connect.
package events
