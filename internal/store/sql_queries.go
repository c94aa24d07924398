package store

import (
	"fmt"
	"time"

	sq "github.com/Masterminds/squirrel"

	"github.com/MKhiriev/go-ads-sync/models"
)

// Static queries. $N placeholders work on both backends: PostgreSQL natively,
// SQLite via numbered parameters.
const (
	listActiveAccounts = `SELECT login, auth_token, sandbox, disabled
		FROM accounts
		WHERE disabled = FALSE
		ORDER BY login;`

	getAccount = `SELECT login, auth_token, sandbox, disabled
		FROM accounts
		WHERE login = $1;`

	upsertAccount = `INSERT INTO accounts (login, auth_token, sandbox, disabled)
		VALUES ($1, $2, $3, $4)
		ON CONFLICT (login) DO UPDATE
		SET auth_token = excluded.auth_token,
		    sandbox = excluded.sandbox,
		    disabled = excluded.disabled;`

	getCheckpoint = `SELECT login, dictionary_checkpoint, hierarchy_checkpoint, last_sync_completed_at
		FROM checkpoints
		WHERE login = $1;`

	saveCheckpoint = `INSERT INTO checkpoints (login, dictionary_checkpoint, hierarchy_checkpoint, last_sync_completed_at)
		VALUES ($1, $2, $3, $4)
		ON CONFLICT (login) DO UPDATE
		SET dictionary_checkpoint = excluded.dictionary_checkpoint,
		    hierarchy_checkpoint = excluded.hierarchy_checkpoint,
		    last_sync_completed_at = excluded.last_sync_completed_at;`

	campaignColumns = `id, login, name, state, status, type, start_date, daily_budget_amount, daily_budget_mode`

	listCampaignsByLogin = `SELECT ` + campaignColumns + `
		FROM campaigns
		WHERE login = $1
		ORDER BY id;`

	getCampaign = `SELECT ` + campaignColumns + `
		FROM campaigns
		WHERE id = $1;`

	upsertCampaign = `INSERT INTO campaigns (` + campaignColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
		ON CONFLICT (id) DO UPDATE
		SET name = excluded.name,
		    state = excluded.state,
		    status = excluded.status,
		    type = excluded.type,
		    start_date = excluded.start_date,
		    daily_budget_amount = excluded.daily_budget_amount,
		    daily_budget_mode = excluded.daily_budget_mode;`

	campaignRemoteIDs = `SELECT id FROM campaigns WHERE login = $1 AND id >= 0 ORDER BY id;`

	campaignSyncRecords = `SELECT id, state, status
		FROM campaigns
		WHERE login = $1
		ORDER BY id;`

	groupColumns = `id, campaign_id, name, state, status, serving_status, region_ids`

	getAdGroup = `SELECT ` + groupColumns + `
		FROM ad_groups
		WHERE id = $1;`

	// group state is local-only (delete marker), so a re-pull never
	// overwrites it
	upsertAdGroup = `INSERT INTO ad_groups (` + groupColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		ON CONFLICT (id) DO UPDATE
		SET campaign_id = excluded.campaign_id,
		    name = excluded.name,
		    status = excluded.status,
		    serving_status = excluded.serving_status,
		    region_ids = excluded.region_ids;`

	groupRemoteIDs = `SELECT g.id
		FROM ad_groups g
		JOIN campaigns c ON c.id = g.campaign_id
		WHERE c.login = $1 AND g.id >= 0
		ORDER BY g.id;`

	groupSyncRecords = `SELECT g.id, g.campaign_id, g.state, g.status
		FROM ad_groups g
		JOIN campaigns c ON c.id = g.campaign_id
		WHERE c.login = $1
		ORDER BY g.id;`

	adColumns = `id, ad_group_id, state, status, status_clarification,
		title, title2, text, href, mobile, display_domain, display_url_path, v_card_id, ad_image_hash`

	getAd = `SELECT ` + adColumns + `
		FROM ads
		WHERE id = $1;`

	upsertAd = `INSERT INTO ads (` + adColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14)
		ON CONFLICT (id) DO UPDATE
		SET ad_group_id = excluded.ad_group_id,
		    state = excluded.state,
		    status = excluded.status,
		    status_clarification = excluded.status_clarification,
		    title = excluded.title,
		    title2 = excluded.title2,
		    text = excluded.text,
		    href = excluded.href,
		    mobile = excluded.mobile,
		    display_domain = excluded.display_domain,
		    display_url_path = excluded.display_url_path,
		    v_card_id = excluded.v_card_id,
		    ad_image_hash = excluded.ad_image_hash;`

	adRemoteIDs = `SELECT a.id
		FROM ads a
		JOIN ad_groups g ON g.id = a.ad_group_id
		JOIN campaigns c ON c.id = g.campaign_id
		WHERE c.login = $1 AND a.id >= 0
		ORDER BY a.id;`

	adSyncRecords = `SELECT a.id, a.ad_group_id, a.state, a.status
		FROM ads a
		JOIN ad_groups g ON g.id = a.ad_group_id
		JOIN campaigns c ON c.id = g.campaign_id
		WHERE c.login = $1
		ORDER BY a.id;`

	criterionColumns = `id, ad_group_id, variant, state, status,
		keyword_text, bid, context_bid, strategy_priority, user_param1, user_param2,
		dyn_name, dyn_min_price, dyn_rate`

	getCriterion = `SELECT ` + criterionColumns + `
		FROM criteria
		WHERE id = $1;`

	upsertCriterion = `INSERT INTO criteria (` + criterionColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14)
		ON CONFLICT (id) DO UPDATE
		SET ad_group_id = excluded.ad_group_id,
		    variant = excluded.variant,
		    state = excluded.state,
		    status = excluded.status,
		    keyword_text = excluded.keyword_text,
		    bid = excluded.bid,
		    context_bid = excluded.context_bid,
		    strategy_priority = excluded.strategy_priority,
		    user_param1 = excluded.user_param1,
		    user_param2 = excluded.user_param2,
		    dyn_name = excluded.dyn_name,
		    dyn_min_price = excluded.dyn_min_price,
		    dyn_rate = excluded.dyn_rate;`

	insertCriterionStub = `INSERT INTO criteria (id, ad_group_id, variant, state, status, keyword_text)
		VALUES ($1, $2, $3, $4, $5, '')
		ON CONFLICT (id) DO NOTHING;`

	criterionSyncRecords = `SELECT k.id, k.ad_group_id, k.state, k.status
		FROM criteria k
		JOIN ad_groups g ON g.id = k.ad_group_id
		JOIN campaigns c ON c.id = g.campaign_id
		WHERE c.login = $1 AND k.variant = $2
		ORDER BY k.id;`

	insertNegativeKeyword = `INSERT INTO group_negative_keywords (ad_group_id, text)
		VALUES ($1, $2)
		ON CONFLICT (ad_group_id, text) DO NOTHING;`

	deleteNegativesForGroup = `DELETE FROM group_negative_keywords WHERE ad_group_id = $1;`

	listRegions = `SELECT id, name, type, parent_id FROM regions ORDER BY id;`

	deleteAllRegions = `DELETE FROM regions;`

	insertRegion = `INSERT INTO regions (id, name, type, parent_id)
		VALUES ($1, $2, $3, $4);`

	appendChangeLogEntry = `INSERT INTO change_log (kind, entity_id, field, origin, changed_at)
		VALUES ($1, $2, $3, $4, $5);`

	insertStatRow = `INSERT INTO stats (date, campaign_id, ad_group_id, ad_id, criterion_id,
			shows, clicks, region_id, device, gender, age, carrier_type, mobile_platform, slot)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14);`

	nextPlaceholderID = `UPDATE placeholder_seq SET last_id = last_id - 1 RETURNING last_id;`
)

// Remap queries. A remap inserts a copy of the placeholder row under the
// remote-assigned id, re-points every referencing record, then deletes the
// placeholder row, all inside one transaction. $1 is the new id, $2 the old.
const (
	remapTargetExists = `SELECT COUNT(*) FROM %s WHERE id = $1;`

	remapCopyCampaign = `INSERT INTO campaigns (` + campaignColumns + `)
		SELECT $1, login, name, state, status, type, start_date, daily_budget_amount, daily_budget_mode
		FROM campaigns WHERE id = $2;`

	remapGroupsParent = `UPDATE ad_groups SET campaign_id = $1 WHERE campaign_id = $2;`

	remapCopyGroup = `INSERT INTO ad_groups (` + groupColumns + `)
		SELECT $1, campaign_id, name, state, status, serving_status, region_ids
		FROM ad_groups WHERE id = $2;`

	remapAdsParent       = `UPDATE ads SET ad_group_id = $1 WHERE ad_group_id = $2;`
	remapCriteriaParent  = `UPDATE criteria SET ad_group_id = $1 WHERE ad_group_id = $2;`
	remapNegativesParent = `UPDATE group_negative_keywords SET ad_group_id = $1 WHERE ad_group_id = $2;`

	remapCopyAd = `INSERT INTO ads (` + adColumns + `)
		SELECT $1, ad_group_id, state, status, status_clarification,
			title, title2, text, href, mobile, display_domain, display_url_path, v_card_id, ad_image_hash
		FROM ads WHERE id = $2;`

	remapCopyCriterion = `INSERT INTO criteria (` + criterionColumns + `)
		SELECT $1, ad_group_id, variant, state, status,
			keyword_text, bid, context_bid, strategy_priority, user_param1, user_param2,
			dyn_name, dyn_min_price, dyn_rate
		FROM criteria WHERE id = $2;`

	remapChangeLog = `UPDATE change_log SET entity_id = $1 WHERE kind = $3 AND entity_id = $2;`

	remapDelete = `DELETE FROM %s WHERE id = $1;`
)

// psql builds dynamic queries with $N placeholders for id-set filters, where
// a constant query cannot express the variable IN list.
var psql = sq.StatementBuilder.PlaceholderFormat(sq.Dollar)

func buildSelectIn(columns, table, idColumn string, ids []int64) (string, []any, error) {
	query, args, err := psql.
		Select(columns).
		From(table).
		Where(sq.Eq{idColumn: ids}).
		OrderBy("id").
		ToSql()
	if err != nil {
		return "", nil, fmt.Errorf("%w: %w", ErrBuildingSQLQuery, err)
	}

	return query, args, nil
}

func buildDeleteIn(table string, ids []int64) (string, []any, error) {
	query, args, err := psql.
		Delete(table).
		Where(sq.Eq{"id": ids}).
		ToSql()
	if err != nil {
		return "", nil, fmt.Errorf("%w: %w", ErrBuildingSQLQuery, err)
	}

	return query, args, nil
}

func buildSetState(table string, state models.State, ids []int64) (string, []any, error) {
	query, args, err := psql.
		Update(table).
		Set("state", string(state)).
		Where(sq.Eq{"id": ids}).
		ToSql()
	if err != nil {
		return "", nil, fmt.Errorf("%w: %w", ErrBuildingSQLQuery, err)
	}

	return query, args, nil
}

func buildFieldsSince(kind models.EntityKind, since time.Time, ids []int64) (string, []any, error) {
	builder := psql.
		Select("DISTINCT entity_id, field").
		From("change_log").
		Where(sq.Eq{"kind": string(kind), "origin": string(models.OriginLocal)}).
		Where(sq.Gt{"changed_at": since})
	if len(ids) > 0 {
		builder = builder.Where(sq.Eq{"entity_id": ids})
	}

	query, args, err := builder.ToSql()
	if err != nil {
		return "", nil, fmt.Errorf("%w: %w", ErrBuildingSQLQuery, err)
	}

	return query, args, nil
}

func buildStatsDeleteRange(campaignIDs []int64, from, to time.Time) (string, []any, error) {
	query, args, err := psql.
		Delete("stats").
		Where(sq.Eq{"campaign_id": campaignIDs}).
		Where(sq.GtOrEq{"date": from}).
		Where(sq.LtOrEq{"date": to}).
		ToSql()
	if err != nil {
		return "", nil, fmt.Errorf("%w: %w", ErrBuildingSQLQuery, err)
	}

	return query, args, nil
}

func buildStatsLastDate(campaignIDs []int64) (string, []any, error) {
	query, args, err := psql.
		Select("MAX(date)").
		From("stats").
		Where(sq.Eq{"campaign_id": campaignIDs}).
		ToSql()
	if err != nil {
		return "", nil, fmt.Errorf("%w: %w", ErrBuildingSQLQuery, err)
	}

	return query, args, nil
}

func buildNegativesFor(groupIDs []int64) (string, []any, error) {
	query, args, err := psql.
		Select("ad_group_id, text").
		From("group_negative_keywords").
		Where(sq.Eq{"ad_group_id": groupIDs}).
		OrderBy("ad_group_id", "text").
		ToSql()
	if err != nil {
		return "", nil, fmt.Errorf("%w: %w", ErrBuildingSQLQuery, err)
	}

	return query, args, nil
}
