package mqtt

import "fmt"

// Topic structure for the TV controller:
//
//	grandmatv/command            incoming command requests (JSON)
//	grandmatv/result/{id}        per-command result, id from the request
//	grandmatv/system/status      retained online/offline status (LWT)
//
// Results are published on a per-command topic so a requester can subscribe
// to exactly its own result instead of filtering a shared stream.
const topicPrefix = "grandmatv"

// Topics builds the controller's MQTT topic strings.
// Use the zero value: mqtt.Topics{}.Command().
type Topics struct{}

// Command returns the topic commands arrive on.
func (Topics) Command() string {
	return topicPrefix + "/command"
}

// Result returns the result topic for one command ID.
func (Topics) Result(id string) string {
	return fmt.Sprintf("%s/result/%s", topicPrefix, id)
}

// SystemStatus returns the retained controller status topic. The broker
// publishes the LWT here if the controller dies without disconnecting.
func (Topics) SystemStatus() string {
	return topicPrefix + "/system/status"
}
