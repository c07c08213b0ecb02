// Package mqtt provides the controller's MQTT connectivity: a thin wrapper
// over paho.mqtt.golang plus the command front-end built on it.
//
// Client handles the transport concerns: connection with auto-reconnect and
// exponential backoff, re-subscription after reconnect, publish/subscribe
// with timeouts, and a retained online/offline status on
// grandmatv/system/status backed by a Last Will and Testament.
//
// Listener is the front-end: it subscribes to grandmatv/command, expects a
// JSON payload of the form
//
//	{"id": "req-42", "action": "channel_1"}
//
// and publishes a result to grandmatv/result/{id} when the command
// finishes. Commands run through the same gated service as the web and
// Telegram front-ends, so a command arriving over MQTT while another is
// executing gets a busy result rather than queueing.
package mqtt
