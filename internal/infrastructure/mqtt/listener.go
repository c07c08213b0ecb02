package mqtt

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/Martin09/GrandmaTVController/internal/tvcontrol"
)

// Broker is the publish/subscribe capability the listener needs.
// *Client satisfies it; tests substitute fakes.
type Broker interface {
	Publish(topic string, payload []byte, qos byte, retained bool) error
	Subscribe(topic string, qos byte, handler MessageHandler) error
}

// Commander executes named actions. *tvcontrol.Service satisfies it.
type Commander interface {
	Execute(ctx context.Context, actionName string) (string, error)
}

// commandMessage is the JSON payload expected on grandmatv/command.
type commandMessage struct {
	// ID correlates the result topic; generated when absent.
	ID string `json:"id"`

	// Action is the catalog or synthetic action name.
	Action string `json:"action"`
}

// resultMessage is published to grandmatv/result/{id} after every command.
type resultMessage struct {
	ID        string `json:"id"`
	Action    string `json:"action"`
	Status    string `json:"status"`
	Message   string `json:"message"`
	Timestamp string `json:"timestamp"`
}

// Result status values.
const (
	StatusOK      = "ok"
	StatusBusy    = "busy"
	StatusUnknown = "unknown_action"
	StatusError   = "error"
)

// Listener is the MQTT command front-end. It subscribes to the command
// topic and publishes one result per command on that command's result topic.
type Listener struct {
	broker    Broker
	commander Commander
	qos       byte
	logger    Logger
}

// NewListener wires a Listener.
//
// Parameters:
//   - broker: Connected MQTT client
//   - commander: Command executor shared with the other front-ends
//   - qos: QoS used for the subscription and result publishes
//   - logger: Logger instance (must not be nil)
func NewListener(broker Broker, commander Commander, qos byte, logger Logger) *Listener {
	return &Listener{
		broker:    broker,
		commander: commander,
		qos:       qos,
		logger:    logger,
	}
}

// Start subscribes to the command topic. Message handling runs on the MQTT
// client's goroutines; ctx bounds each command's execution, not Start itself.
func (l *Listener) Start(ctx context.Context) error {
	topic := Topics{}.Command()
	err := l.broker.Subscribe(topic, l.qos, func(_ string, payload []byte) error {
		return l.handleCommand(ctx, payload)
	})
	if err != nil {
		return fmt.Errorf("subscribing to %s: %w", topic, err)
	}

	l.logger.Info("MQTT command listener started", "topic", topic)
	return nil
}

// handleCommand decodes one command payload, executes it, and publishes the
// result. Malformed payloads with no usable ID get no result: there is no
// topic to send it to.
func (l *Listener) handleCommand(ctx context.Context, payload []byte) error {
	var cmd commandMessage
	if err := json.Unmarshal(payload, &cmd); err != nil {
		l.logger.Warn("dropping malformed command payload", "error", err)
		return nil
	}
	if cmd.ID == "" {
		cmd.ID = uuid.NewString()
	}

	if cmd.Action == "" {
		return l.publishResult(cmd, StatusUnknown, "missing action field")
	}

	l.logger.Info("MQTT command received", "id", cmd.ID, "action", cmd.Action)

	msg, err := l.commander.Execute(ctx, cmd.Action)
	switch {
	case err == nil:
		return l.publishResult(cmd, StatusOK, msg)
	case errors.Is(err, tvcontrol.ErrBusy):
		return l.publishResult(cmd, StatusBusy, "another command is already running")
	case errors.Is(err, tvcontrol.ErrUnknownAction):
		return l.publishResult(cmd, StatusUnknown, fmt.Sprintf("unknown action: %s", cmd.Action))
	default:
		return l.publishResult(cmd, StatusError, err.Error())
	}
}

func (l *Listener) publishResult(cmd commandMessage, status, message string) error {
	result := resultMessage{
		ID:        cmd.ID,
		Action:    cmd.Action,
		Status:    status,
		Message:   message,
		Timestamp: time.Now().UTC().Format(time.RFC3339),
	}
	payload, err := json.Marshal(result)
	if err != nil {
		return fmt.Errorf("encoding result: %w", err)
	}

	topic := Topics{}.Result(cmd.ID)
	if err := l.broker.Publish(topic, payload, l.qos, false); err != nil {
		return fmt.Errorf("publishing result to %s: %w", topic, err)
	}
	return nil
}
