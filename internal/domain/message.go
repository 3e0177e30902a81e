package domain

import "time"

// Message representa un mensaje de chat persistido. Inmutable una vez creado.
type Message struct {
	ID        string    `json:"id"`
	UserID    string    `json:"user_id"`
	Content   string    `json:"content"`
	CreatedAt time.Time `json:"created_at"`
}

// StoredMessage es un Message junto con la dirección de wallet del emisor,
// tal como la devuelve el store al hacer join con la tabla de usuarios.
// La dirección llega sin enmascarar: el masking se aplica registro a registro
// al proyectar hacia afuera.
type StoredMessage struct {
	Message
	WalletAddress string
}

// ChatMessage es la proyección pública de un mensaje: misma información que
// Message pero con timestamp en texto ordenable y la wallet enmascarada.
type ChatMessage struct {
	ID            string `json:"id"`
	UserID        string `json:"userId"`
	WalletAddress string `json:"walletAddress"`
	Content       string `json:"content"`
	CreatedAt     string `json:"createdAt"`
}
