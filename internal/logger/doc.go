// Package logger wraps zap for the prop controller:
//   - a global sugared logger with a console encoder on stderr, so stdout
//     stays free for reports,
//   - context helpers (ToContext/FromContext/WithName/WithKV/WithFields),
//   - level configuration and parsing,
//   - leveled convenience functions (Infof, ErrorKV, etc.).
//
// Components receive a context and extract the logger from it, so a session
// ID attached once by the host shows up on every line the engine writes.
package logger
