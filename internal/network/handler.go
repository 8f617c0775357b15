//START OF FILE jokenpoarena/internal/network/handler.go
package network

// EventHandler é a interface que conecta a rede com a lógica do jogo.
// Os três métodos são chamados a partir da goroutine da própria conexão.
type EventHandler interface {
	// OnConnect é chamado quando um novo cliente se conecta com sucesso.
	OnConnect(c *Client)

	// OnDisconnect é chamado uma única vez quando a conexão termina,
	// seja por fechamento normal, erro de leitura ou frame inválido.
	OnDisconnect(c *Client)

	// OnMessage é chamado para cada frame decodificado.
	OnMessage(c *Client, msg *Message)
}

//END OF FILE jokenpoarena/internal/network/handler.go
