// Package eventstatus consulta no Redis o estado dos eventos esportivos
// e as odds correntes publicadas pelo pipeline de cotação.
package eventstatus

import (
	"context"
	"errors"
	"fmt"

	"github.com/redis/go-redis/v9"

	"github.com/radieske/sportsbook-ledger/internal/domain"
)

const (
	StatusOpen    = "OPEN"
	StatusClosed  = "CLOSED"
	StatusSettled = "SETTLED"
)

type Redis struct {
	Rdb *redis.Client
}

func NewRedis(r *redis.Client) *Redis { return &Redis{Rdb: r} }

// Espera chave "event:{eventID}:status" => "OPEN" | "CLOSED" | "SETTLED".
// Chave ausente é tratada como evento desconhecido.
func (r *Redis) IsOpen(ctx context.Context, eventID string) (bool, error) {
	key := fmt.Sprintf("event:%s:status", eventID)
	val, err := r.Rdb.Get(ctx, key).Result()
	if errors.Is(err, redis.Nil) {
		return false, domain.ErrEventNotFound
	}
	if err != nil {
		return false, err
	}
	return val == StatusOpen, nil
}

// Espera chave "odds:{eventID}:{selection}" => odd decimal em string,
// ex: "1.85". Ausência de chave não é erro: retorna vazio e a aposta
// segue com a odd cotada pelo cliente.
func (r *Redis) CurrentOdds(ctx context.Context, eventID, selection string) (string, error) {
	key := fmt.Sprintf("odds:%s:%s", eventID, selection)
	val, err := r.Rdb.Get(ctx, key).Result()
	if errors.Is(err, redis.Nil) {
		return "", nil
	}
	if err != nil {
		return "", err
	}
	return val, nil
}

// MarkSettled grava o estado terminal do evento. Chamado pelo worker de
// liquidação após processar a mensagem do broker.
func (r *Redis) MarkSettled(ctx context.Context, eventID string) error {
	key := fmt.Sprintf("event:%s:status", eventID)
	return r.Rdb.Set(ctx, key, StatusSettled, 0).Err()
}

// MarkOpen habilita o evento para apostas. Usado pelo simulador e pelo
// seeder de demonstração.
func (r *Redis) MarkOpen(ctx context.Context, eventID string) error {
	key := fmt.Sprintf("event:%s:status", eventID)
	return r.Rdb.Set(ctx, key, StatusOpen, 0).Err()
}

// MarkClosed fecha o evento para apostas sem liquidá-lo: a partida
// começou, o desfecho ainda não veio.
func (r *Redis) MarkClosed(ctx context.Context, eventID string) error {
	key := fmt.Sprintf("event:%s:status", eventID)
	return r.Rdb.Set(ctx, key, StatusClosed, 0).Err()
}

// SetOdds publica a odd corrente de uma seleção.
func (r *Redis) SetOdds(ctx context.Context, eventID, selection, odd string) error {
	key := fmt.Sprintf("odds:%s:%s", eventID, selection)
	return r.Rdb.Set(ctx, key, odd, 0).Err()
}
