package message

// Isso aqui são as mensagens que vão no sentido servidor -> cliente.
// Todo payload é um objeto plano com o campo "cmd".

import (
	"jokenpoarena/internal/game/card"
)

const (
	CmdQueued             = "queued"
	CmdPackageOpened      = "package_opened"
	CmdPackageEmpty       = "package_empty"
	CmdSkinsList          = "skins_list"
	CmdEquipOK            = "equip_ok"
	CmdEquipFail          = "equip_fail"
	CmdGameStart          = "game_start"
	CmdTurnStart          = "turn_start"
	CmdTurnResult         = "turn_result"
	CmdGameOver           = "game_over"
	CmdOpponentDisconnect = "opponent_disconnect"
	CmdUnknown            = "unknown"
	CmdPong               = "pong"
)

// Tags de vencedor do turno, sempre do ponto de vista de quem recebe.
const (
	WinnerYou      = "you"
	WinnerOpponent = "opponent"
)

const (
	ResultTie = "tie"

	ReasonNoStock            = "no_stock"
	ReasonSkinNotOwned       = "skin_not_owned"
	ReasonLives              = "lives"
	ReasonCardsExhausted     = "cards_exhausted"
	ReasonOpponentDisconnect = "opponent_disconnect"
	ReasonTimeout            = "timeout"
)

type Simple struct {
	Cmd string `json:"cmd"`
}

type PackageOpened struct {
	Cmd     string         `json:"cmd"`
	Ticket  string         `json:"ticket"`
	Awarded []card.Package `json:"awarded"`
}

type Reason struct {
	Cmd    string `json:"cmd"`
	Reason string `json:"reason"`
}

type SkinsList struct {
	Cmd      string               `json:"cmd"`
	Owned    []card.Package       `json:"owned"`
	Equipped map[card.Type]string `json:"equipped"`
}

type EquipOK struct {
	Cmd  string    `json:"cmd"`
	Type card.Type `json:"type"`
	Skin string    `json:"skin"`
}

type GameStart struct {
	Cmd           string   `json:"cmd"`
	Match         string   `json:"match"`
	Opponent      string   `json:"opponent"`
	Hand          []string `json:"hand"`
	Lives         int      `json:"lives"`
	OpponentLives int      `json:"opp_lives"`
}

type TurnStart struct {
	Cmd  string   `json:"cmd"`
	Turn int      `json:"turn"`
	Hand []string `json:"hand"`
	TID  string   `json:"tid"`
}

type TurnResult struct {
	Cmd          string    `json:"cmd"`
	Turn         int       `json:"turn"`
	YourCard     string    `json:"your_card"`
	YourCardType card.Type `json:"your_card_type"`
	OppCard      string    `json:"opp_card"`
	OppCardType  card.Type `json:"opp_card_type"`
	Winner       *string   `json:"winner"`
	WinnerID     *string   `json:"winner_id"`
	YourLives    int       `json:"your_lives"`
	OppLives     int       `json:"opp_lives"`
	Fallback     bool      `json:"fallback,omitempty"`
}

type GameOver struct {
	Cmd    string `json:"cmd"`
	Result string `json:"result"`
	Winner string `json:"winner,omitempty"`
	Reason string `json:"reason"`
}

type Unknown struct {
	Cmd      string `json:"cmd"`
	Received string `json:"received,omitempty"`
}
