// Package manager owns the process-wide vision inference session and
// coordinates access to it. It is structured into small files by concern:
//
//   - manager.go: core Manager type, Ready, Close, event publisher wiring.
//   - config.go: ManagerConfig and package defaults; NewWithConfig applies defaults
//     and selects the adapter.
//   - load.go: one-time session creation (Load).
//   - admission.go: bounded queue and single in-flight slot.
//   - infer.go: Complete, the chat completion entry point.
//   - status_report.go: Status for /status.
//   - sanity.go: llama-server discovery and checks.
//   - errors.go: error types and helpers (IsTooBusy, IsDependencyUnavailable).
//
// Runtimes:
//
//   - llama_subprocess (default): spawns llama-server with -m and --mmproj and
//     talks to its OpenAI-compatible chat endpoint on loopback.
//   - llama_server: uses an already running llama-server (LlamaServerURL).
//
// The session is created once at startup and never per request. Calls into
// it are serialized because the runtime keeps shared KV cache state.
package manager
