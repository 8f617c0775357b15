package message

import (
	"jokenpoarena/internal/game/card"
)

func CreateQueued() Simple { return Simple{Cmd: CmdQueued} }
func CreatePong() Simple { return Simple{Cmd: CmdPong} }
func CreateOpponentDisconnect() Simple { return Simple{Cmd: CmdOpponentDisconnect} }

func CreatePackageEmpty() Reason {
	return Reason{Cmd: CmdPackageEmpty, Reason: ReasonNoStock}
}

func CreatePackageOpened(ticket string, awarded []card.Package) PackageOpened {
	return PackageOpened{Cmd: CmdPackageOpened, Ticket: ticket, Awarded: awarded}
}

func CreateSkinsList(owned []card.Package, equipped map[card.Type]string) SkinsList {
	if owned == nil {
		owned = []card.Package{}
	}
	return SkinsList{Cmd: CmdSkinsList, Owned: owned, Equipped: equipped}
}

func CreateEquipOK(t card.Type, skin string) EquipOK {
	return EquipOK{Cmd: CmdEquipOK, Type: t, Skin: skin}
}

func CreateEquipFail() Reason {
	return Reason{Cmd: CmdEquipFail, Reason: ReasonSkinNotOwned}
}

func CreateUnknown(received string) Unknown {
	return Unknown{Cmd: CmdUnknown, Received: received}
}

// WinsResult é o formato do resultado final: "<id>_wins".
func WinsResult(playerID string) string {
	return playerID + "_wins"
}
