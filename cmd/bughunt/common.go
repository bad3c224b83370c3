package main

import (
	"github.com/metalagman/bughunt/internal/kv"
	"github.com/metalagman/bughunt/internal/session"
	"github.com/rs/zerolog/log"
)

func openSession() (*session.Session, func(), error) {
	store, err := kv.Open(appCfg.Storage)
	if err != nil {
		return nil, func() {}, err
	}
	log.Debug().Str("driver", appCfg.Storage.Driver).Str("path", appCfg.Storage.Path).Msg("storage opened")
	sess := session.New(store, session.WithHintThreshold(appCfg.Game.HintThreshold))
	return sess, func() {
		if err := store.Close(); err != nil {
			log.Warn().Err(err).Msg("close storage")
		}
	}, nil
}
