package store

import (
	"context"
	"fmt"
	"time"

	"donationhub/internal/utils"
	"donationhub/pkg/types"

	"github.com/georgysavva/scany/v2/pgxscan"
)

const commentTableName = "donationhub.comments"

var commentColumns = utils.StructTagValues(types.Comment{})

type CommentRepository struct {
	pool DB
}

func NewCommentRepository(pool DB) *CommentRepository {
	return &CommentRepository{pool: pool}
}

func (r *CommentRepository) CreateComment(ctx context.Context, comment *types.Comment) error {
	comment.ID = utils.NanoID()
	comment.RecordedAt = time.Now()

	query, args, err := psql().
		Insert(commentTableName).
		SetMap(utils.StructToMap(comment)).
		ToSql()
	if err != nil {
		return fmt.Errorf("failed to generate insert comment query: %w", err)
	}

	_, err = r.pool.Exec(ctx, query, args...)
	return utils.ErrorWrapOrNil(err, "failed to create comment")
}

func (r *CommentRepository) Comments(ctx context.Context) ([]*types.Comment, error) {
	query, args, err := psql().
		Select(commentColumns...).
		From(commentTableName).
		OrderBy("recorded_at ASC").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to generate comments query: %w", err)
	}

	var comments = make([]*types.Comment, 0)
	err = pgxscan.Select(ctx, r.pool, &comments, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch comments: %w", err)
	}

	return comments, nil
}
