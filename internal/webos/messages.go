package webos

import "encoding/json"

// SSAP message types exchanged with the TV.
const (
	typeRegister   = "register"
	typeRegistered = "registered"
	typeRequest    = "request"
	typeResponse   = "response"
	typeError      = "error"
)

// SSAP request URIs used by this client.
const (
	uriLaunchApp     = "ssap://system.launcher/launch"
	uriPointerSocket = "ssap://com.webos.service.networkinput/getPointerInputSocket"
	uriTurnOff       = "ssap://system/turnoff"
)

// message is the SSAP envelope. Every frame on the control socket, in either
// direction, is one of these.
type message struct {
	Type    string          `json:"type"`
	ID      string          `json:"id,omitempty"`
	URI     string          `json:"uri,omitempty"`
	Payload json.RawMessage `json:"payload,omitempty"`
	Error   string          `json:"error,omitempty"`
}

// registerPayload is sent with the register message. The manifest declares
// the permissions this client asks for; the TV shows a pairing prompt on
// first contact and issues a client key once the user accepts.
type registerPayload struct {
	ForcePairing bool             `json:"forcePairing"`
	PairingType  string           `json:"pairingType"`
	ClientKey    string           `json:"client-key,omitempty"`
	Manifest     registerManifest `json:"manifest"`
}

// registerManifest carries the permission set for the pairing prompt.
type registerManifest struct {
	ManifestVersion int      `json:"manifestVersion"`
	Permissions     []string `json:"permissions"`
}

// registeredPayload is the payload of the registered response.
type registeredPayload struct {
	ClientKey string `json:"client-key"`
}

// responsePayload is the common shape of SSAP request responses.
type responsePayload struct {
	ReturnValue bool   `json:"returnValue"`
	ErrorText   string `json:"errorText,omitempty"`

	// SocketPath is present in getPointerInputSocket responses.
	SocketPath string `json:"socketPath,omitempty"`
}

// launchPayload is the payload for system.launcher/launch requests.
type launchPayload struct {
	ID string `json:"id"`
}

// defaultManifest lists the permissions this controller needs: app launching,
// remote button input, and power control.
func defaultManifest() registerManifest {
	return registerManifest{
		ManifestVersion: 1,
		Permissions: []string{
			"LAUNCH",
			"LAUNCH_WEBAPP",
			"CONTROL_INPUT_JOYSTICK",
			"CONTROL_INPUT_TEXT",
			"CONTROL_MOUSE_AND_KEYBOARD",
			"CONTROL_POWER",
			"READ_CURRENT_CHANNEL",
			"READ_RUNNING_APPS",
			"READ_INSTALLED_APPS",
		},
	}
}

// newRegisterPayload builds the register payload, attaching the stored
// client key when one exists so the TV can skip the pairing prompt.
func newRegisterPayload(clientKey string) registerPayload {
	return registerPayload{
		ForcePairing: false,
		PairingType:  "PROMPT",
		ClientKey:    clientKey,
		Manifest:     defaultManifest(),
	}
}
