package services

import (
	"context"
	"fmt"

	"github.com/rafabene/avantpro-social/internal/domain/entities"
	domainerrors "github.com/rafabene/avantpro-social/internal/domain/errors"
	"github.com/rafabene/avantpro-social/internal/domain/ports"
)

// DefaultPageSize é usado quando o serviço recebe um tamanho de página inválido
const DefaultPageSize = 10

type noopRecorder struct{}

func (noopRecorder) Record(string) {}

type noopPublisher struct{}

func (noopPublisher) Publish(ports.Event) {}

func recorderOrNoop(r ports.ActionRecorder) ports.ActionRecorder {
	if r == nil {
		return noopRecorder{}
	}
	return r
}

func publisherOrNoop(p ports.EventPublisher) ports.EventPublisher {
	if p == nil {
		return noopPublisher{}
	}
	return p
}

func pageSizeOrDefault(size int) int {
	if size < 1 {
		return DefaultPageSize
	}
	return size
}

// storageFailure registra o detalhe da falha e devolve apenas a categoria Storage
func storageFailure(logger ports.Logger, msg string, err error, args ...any) error {
	logger.Error(msg, append(args, "error", err)...)
	return domainerrors.Storage(err)
}

// passThrough mantém erros de domínio intactos e trata o resto como falha de storage
func passThrough(logger ports.Logger, msg string, err error, args ...any) error {
	if err == nil {
		return nil
	}
	if domainerrors.KindOf(err) != domainerrors.KindUnknown {
		return err
	}
	return storageFailure(logger, msg, err, args...)
}

func require(actor entities.Actor, permission entities.Permission) error {
	if !entities.Can(actor, permission) {
		return domainerrors.ErrForbidden
	}
	return nil
}

// removeBlobs apaga imagens depois do commit; falhas só geram log
func removeBlobs(ctx context.Context, blobs ports.BlobStore, logger ports.Logger, keys ...string) {
	if blobs == nil {
		return
	}
	for _, key := range keys {
		if key == "" {
			continue
		}
		if err := blobs.Delete(ctx, key); err != nil {
			logger.Warn("failed to remove image", "key", key, "error", err)
		}
	}
}

func followersKey(userID int64) string {
	return fmt.Sprintf("followers:%d", userID)
}

func followingKey(userID int64) string {
	return fmt.Sprintf("following:%d", userID)
}

// invalidateCounts descarta contagens em cache; o cache é opcional e falhas só geram log
func invalidateCounts(ctx context.Context, cache ports.CounterCache, logger ports.Logger, keys ...string) {
	if cache == nil || len(keys) == 0 {
		return
	}
	if err := cache.Invalidate(ctx, keys...); err != nil {
		logger.Warn("failed to invalidate counters", "keys", keys, "error", err)
	}
}
