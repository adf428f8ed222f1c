package handler

import (
	"github.com/Alanshi2019/Ichat/internal/app/chat"
	"github.com/Alanshi2019/Ichat/internal/app/session"
	"github.com/Alanshi2019/Ichat/internal/configs"
)

type AppDeps struct {
	Hub      *chat.Hub
	Sessions *session.Handler
	Config   *configs.AppConfig
}
