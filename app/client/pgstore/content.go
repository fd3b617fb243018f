package pgstore

import (
	"context"

	"salescoach/app/service/content"

	"github.com/samber/oops"
)

var _ content.Source = (*Store)(nil)

func (s *Store) LoadSnapshot(ctx context.Context) (*content.Snapshot, error) {
	snap := &content.Snapshot{}

	var err error
	if snap.TriggerPatterns, err = s.loadPatterns(ctx); err != nil {
		return nil, err
	}
	if snap.ObjectionHandlers, err = s.loadHandlers(ctx); err != nil {
		return nil, err
	}
	if snap.Battlecards, err = s.loadBattlecards(ctx); err != nil {
		return nil, err
	}
	if snap.CaseStudies, err = s.loadCaseStudies(ctx); err != nil {
		return nil, err
	}
	if snap.Offers, err = s.loadOffers(ctx); err != nil {
		return nil, err
	}

	return snap, nil
}

func (s *Store) loadPatterns(ctx context.Context) ([]content.TriggerPattern, error) {
	rows, err := s.pool.Query(ctx, `
		SELECT id, keywords, kind, category,
		       COALESCE(competitor_id, ''), COALESCE(offer_id, '')
		FROM trigger_patterns`)
	if err != nil {
		return nil, oops.Errorf("failed to query trigger patterns: %w", err)
	}
	defer rows.Close()

	var result []content.TriggerPattern
	for rows.Next() {
		var p content.TriggerPattern
		if err = rows.Scan(&p.ID, &p.Keywords, &p.Kind, &p.Category, &p.CompetitorID, &p.OfferID); err != nil {
			return nil, oops.Errorf("failed to scan trigger pattern: %w", err)
		}
		result = append(result, p)
	}

	return result, rows.Err()
}

func (s *Store) loadHandlers(ctx context.Context) ([]content.ObjectionHandler, error) {
	rows, err := s.pool.Query(ctx, `
		SELECT id, objection_text, trigger_keywords, category,
		       response_short, response_detailed, follow_up_questions
		FROM objection_handlers`)
	if err != nil {
		return nil, oops.Errorf("failed to query objection handlers: %w", err)
	}
	defer rows.Close()

	var result []content.ObjectionHandler
	for rows.Next() {
		var h content.ObjectionHandler
		if err = rows.Scan(&h.ID, &h.ObjectionText, &h.TriggerKeywords, &h.Category,
			&h.Responses.Short, &h.Responses.Detailed, &h.Responses.FollowUpQuestions); err != nil {
			return nil, oops.Errorf("failed to scan objection handler: %w", err)
		}
		result = append(result, h)
	}

	return result, rows.Err()
}

func (s *Store) loadBattlecards(ctx context.Context) ([]content.Battlecard, error) {
	rows, err := s.pool.Query(ctx, `
		SELECT id, competitor_name, their_strengths, their_weaknesses,
		       our_advantages, talking_points, common_objections
		FROM battlecards`)
	if err != nil {
		return nil, oops.Errorf("failed to query battlecards: %w", err)
	}
	defer rows.Close()

	var result []content.Battlecard
	for rows.Next() {
		var c content.Battlecard
		if err = rows.Scan(&c.ID, &c.CompetitorName, &c.TheirStrengths, &c.TheirWeaknesses,
			&c.OurAdvantages, &c.TalkingPoints, &c.CommonObjections); err != nil {
			return nil, oops.Errorf("failed to scan battlecard: %w", err)
		}
		result = append(result, c)
	}

	return result, rows.Err()
}

func (s *Store) loadCaseStudies(ctx context.Context) ([]content.CaseStudy, error) {
	rows, err := s.pool.Query(ctx, `
		SELECT id, customer_name, industry, challenge, solution, results, quote, is_public
		FROM case_studies`)
	if err != nil {
		return nil, oops.Errorf("failed to query case studies: %w", err)
	}
	defer rows.Close()

	var result []content.CaseStudy
	for rows.Next() {
		var cs content.CaseStudy
		if err = rows.Scan(&cs.ID, &cs.CustomerName, &cs.Industry, &cs.Challenge,
			&cs.Solution, &cs.Results, &cs.Quote, &cs.IsPublic); err != nil {
			return nil, oops.Errorf("failed to scan case study: %w", err)
		}
		result = append(result, cs)
	}

	return result, rows.Err()
}

func (s *Store) loadOffers(ctx context.Context) ([]content.Offer, error) {
	rows, err := s.pool.Query(ctx, `
		SELECT id, name, short_description, full_description, deliverables,
		       duration, price_min, price_max, price_unit, target_audience, related_case_ids
		FROM offers`)
	if err != nil {
		return nil, oops.Errorf("failed to query offers: %w", err)
	}
	defer rows.Close()

	var result []content.Offer
	for rows.Next() {
		var o content.Offer
		if err = rows.Scan(&o.ID, &o.Name, &o.ShortDescription, &o.FullDescription, &o.Deliverables,
			&o.Duration, &o.Price.Min, &o.Price.Max, &o.Price.Unit, &o.TargetAudience, &o.RelatedCaseIDs); err != nil {
			return nil, oops.Errorf("failed to scan offer: %w", err)
		}
		result = append(result, o)
	}

	return result, rows.Err()
}
