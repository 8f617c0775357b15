//START OF FILE jokenpoarena/internal/network/protocol.go
package network

import (
	"bytes"
	"encoding/binary"
	"encoding/json"
	"errors"
	"fmt"
	"io"
)

// MaxMessageSize limita o tamanho declarado no cabeçalho do frame.
const MaxMessageSize = 1024 * 1024

const headerSize = 4

var (
	// ErrConnectionClosed indica que o stream terminou antes de um frame completo.
	ErrConnectionClosed = errors.New("connection closed")
	ErrMessageTooLarge  = errors.New("message too large")
	ErrMalformedFrame   = errors.New("malformed frame")
)

// Message é um frame recebido do cliente. O payload é um objeto JSON plano
// com o campo "cmd"; o resto dos campos fica em Raw para decodificação posterior.
type Message struct {
	Cmd string
	Raw json.RawMessage
}

// Bind decodifica os campos do comando dentro de v.
func (m *Message) Bind(v any) error {
	if err := json.Unmarshal(m.Raw, v); err != nil {
		return fmt.Errorf("%w: %v", ErrMalformedFrame, err)
	}
	return nil
}

// Encode transforma o payload em JSON e prefixa com o tamanho (4 bytes, big-endian).
func Encode(payload any) ([]byte, error) {
	body, err := json.Marshal(payload)
	if err != nil {
		return nil, err
	}
	if len(body) > MaxMessageSize {
		return nil, fmt.Errorf("%w: size %d exceeds max size %d", ErrMessageTooLarge, len(body), MaxMessageSize)
	}

	frame := make([]byte, headerSize+len(body))
	binary.BigEndian.PutUint32(frame[:headerSize], uint32(len(body)))
	copy(frame[headerSize:], body)
	return frame, nil
}

// WriteMessage escreve um frame inteiro com uma única chamada a Write,
// assim duas goroutines nunca intercalam cabeçalho e corpo.
func WriteMessage(w io.Writer, payload any) error {
	frame, err := Encode(payload)
	if err != nil {
		return err
	}
	_, err = w.Write(frame)
	return err
}

// ReadMessage bloqueia até ler um frame completo.
func ReadMessage(r io.Reader) (*Message, error) {
	lenBuf := make([]byte, headerSize)
	if _, err := io.ReadFull(r, lenBuf); err != nil {
		return nil, closedOr(err)
	}

	msgLen := binary.BigEndian.Uint32(lenBuf)
	if msgLen > MaxMessageSize {
		return nil, fmt.Errorf("%w: size %d exceeds max size %d", ErrMessageTooLarge, msgLen, MaxMessageSize)
	}

	body := make([]byte, msgLen)
	if _, err := io.ReadFull(r, body); err != nil {
		return nil, closedOr(err)
	}

	return DecodePayload(body)
}

// DecodePayload interpreta o corpo de um frame. Também é usado pelo transporte
// WebSocket, onde cada mensagem de texto já é um frame.
func DecodePayload(body []byte) (*Message, error) {
	body = bytes.TrimSpace(body)
	if len(body) == 0 || body[0] != '{' {
		return nil, fmt.Errorf("%w: payload is not a JSON object", ErrMalformedFrame)
	}

	var head struct {
		Cmd string `json:"cmd"`
	}
	if err := json.Unmarshal(body, &head); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMalformedFrame, err)
	}

	return &Message{Cmd: head.Cmd, Raw: json.RawMessage(body)}, nil
}

func closedOr(err error) error {
	if errors.Is(err, io.EOF) || errors.Is(err, io.ErrUnexpectedEOF) {
		return fmt.Errorf("%w: %v", ErrConnectionClosed, err)
	}
	return err
}

//END OF FILE jokenpoarena/internal/network/protocol.go
