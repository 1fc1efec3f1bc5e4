package services

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"math/rand"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"regscrape/internal/models"
)

const (
	minPageSize    = 5
	maxPageSize    = 250
	requestTries   = 3
	requestTimeout = 60 * time.Second
	// The commenting API allows 50 requests/minute with a secondary
	// 500/hour limit; a 429 is waited out rather than retried away.
	rateLimitWait = 5 * time.Minute

	defaultMinJitter = time.Second
	defaultMaxJitter = 2 * time.Second
)

type RegulationsService struct {
	client     *http.Client
	apiKey     string
	baseURL    string
	pageSize   int
	logService LogWriter
	minJitter  time.Duration
	maxJitter  time.Duration
	sleep      func(time.Duration)
}

func NewRegulationsService(apiKey string, baseURL string, pageSize int, logService LogWriter, client *http.Client) (*RegulationsService, error) {
	if apiKey == "" {
		return nil, errors.New("api key is empty")
	}
	if baseURL == "" {
		return nil, errors.New("base url is empty")
	}
	if pageSize == 0 {
		pageSize = maxPageSize
	}
	if pageSize < minPageSize || pageSize > maxPageSize {
		return nil, fmt.Errorf("page size must be between %d and %d", minPageSize, maxPageSize)
	}
	if logService == nil {
		return nil, errors.New("log service is nil")
	}
	if client == nil {
		client = &http.Client{Timeout: requestTimeout}
	}

	return &RegulationsService{
		client:     client,
		apiKey:     apiKey,
		baseURL:    strings.TrimRight(baseURL, "/"),
		pageSize:   pageSize,
		logService: logService,
		minJitter:  defaultMinJitter,
		maxJitter:  defaultMaxJitter,
		sleep:      time.Sleep,
	}, nil
}

// SetJitter overrides the inter-request delay bounds.
func (s *RegulationsService) SetJitter(min time.Duration, max time.Duration) error {
	if s == nil {
		return errors.New("regulations service is nil")
	}
	if min < 0 || max < min {
		return errors.New("jitter bounds are invalid")
	}

	s.minJitter = min
	s.maxJitter = max
	return nil
}

type commentListResponse struct {
	Data []struct {
		ID string `json:"id"`
	} `json:"data"`
	Meta struct {
		HasNextPage bool `json:"hasNextPage"`
	} `json:"meta"`
}

type commentDetailResponse struct {
	Data struct {
		ID         string            `json:"id"`
		Attributes commentAttributes `json:"attributes"`
	} `json:"data"`
}

type commentAttributes struct {
	TrackingNbr         string `json:"trackingNbr"`
	Country             string `json:"country"`
	StateProvinceRegion string `json:"stateProvinceRegion"`
	Zip                 string `json:"zip"`
	Category            string `json:"category"`
	Subtype             string `json:"subtype"`
	ReceiveDate         string `json:"receiveDate"`
	Title               string `json:"title"`
	ObjectID            string `json:"objectId"`
	AgencyID            string `json:"agencyId"`
	DocketID            string `json:"docketId"`
	OpenForComment      *bool  `json:"openForComment"`
	CommentOnDocumentID string `json:"commentOnDocumentId"`
	Withdrawn           *bool  `json:"withdrawn"`
	RestrictReason      string `json:"restrictReason"`
	RestrictReasonType  string `json:"restrictReasonType"`
	Comment             string `json:"comment"`
}

// ListCommentIDs walks the paginated listing for one docket and returns
// the comment IDs in posting order, duplicates skipped.
func (s *RegulationsService) ListCommentIDs(ctx context.Context, docket models.Docket, window DateWindow, eventID *string) ([]string, error) {
	if s == nil {
		return nil, errors.New("regulations service is nil")
	}
	if docket.CommentOnID == "" {
		return nil, errors.New("docket comment_on_id is empty")
	}

	var ids []string
	seen := make(map[string]bool)

	page := 1
	for {
		params := url.Values{}
		params.Set("filter[commentOnId]", docket.CommentOnID)
		if window.From != "" {
			params.Set("filter[postedDate][ge]", window.From)
		}
		if window.To != "" {
			params.Set("filter[postedDate][le]", window.To)
		}
		params.Set("sort", "-postedDate")
		params.Set("page[size]", strconv.Itoa(s.pageSize))
		params.Set("page[number]", strconv.Itoa(page))

		s.jitterSleep()

		body, err := s.doRequest(ctx, s.baseURL+"/comments", params, LogActionCommentList, eventID)
		if err != nil {
			failMsg := fmt.Sprintf("list comments docket=%s page=%d: %v", docket.CommentOnID, page, err)
			_ = s.logService.CreateLog(ctx, eventID, LogActionCommentList, LogOutcomeFail, &failMsg)
			return nil, fmt.Errorf("list comments page %d: %w", page, err)
		}

		var listResp commentListResponse
		if err := json.Unmarshal(body, &listResp); err != nil {
			failMsg := fmt.Sprintf("decode comment list docket=%s page=%d: %v", docket.CommentOnID, page, err)
			_ = s.logService.CreateLog(ctx, eventID, LogActionCommentList, LogOutcomeFail, &failMsg)
			return nil, fmt.Errorf("decode comment list: %w", err)
		}

		for _, entry := range listResp.Data {
			if entry.ID == "" || seen[entry.ID] {
				continue
			}
			seen[entry.ID] = true
			ids = append(ids, entry.ID)
		}

		if !listResp.Meta.HasNextPage {
			break
		}
		page++
	}

	successMsg := fmt.Sprintf("docket=%s pages=%d ids=%d", docket.CommentOnID, page, len(ids))
	_ = s.logService.CreateLog(ctx, eventID, LogActionCommentList, LogOutcomeSuccess, &successMsg)

	return ids, nil
}

// FetchComment retrieves one comment's detail payload and maps it to a
// record. receiveDate keeps only its date part.
func (s *RegulationsService) FetchComment(ctx context.Context, commentID string, eventID *string) (CommentDetail, error) {
	if s == nil {
		return CommentDetail{}, errors.New("regulations service is nil")
	}
	if commentID == "" {
		return CommentDetail{}, errors.New("comment id is empty")
	}

	detailURL := s.baseURL + "/comments/" + commentID
	params := url.Values{}
	params.Set("include", "attachments")

	s.jitterSleep()

	body, err := s.doRequest(ctx, detailURL, params, LogActionCommentDetail, eventID)
	if err != nil {
		failMsg := fmt.Sprintf("fetch comment id=%s: %v", commentID, err)
		_ = s.logService.CreateLog(ctx, eventID, LogActionCommentDetail, LogOutcomeFail, &failMsg)
		return CommentDetail{}, fmt.Errorf("fetch comment %s: %w", commentID, err)
	}

	var detailResp commentDetailResponse
	if err := json.Unmarshal(body, &detailResp); err != nil {
		failMsg := fmt.Sprintf("decode comment id=%s: %v", commentID, err)
		_ = s.logService.CreateLog(ctx, eventID, LogActionCommentDetail, LogOutcomeFail, &failMsg)
		return CommentDetail{}, fmt.Errorf("decode comment %s: %w", commentID, err)
	}

	attrs := detailResp.Data.Attributes
	receivedDate, _, _ := strings.Cut(attrs.ReceiveDate, "T")

	comment := models.Comment{
		CommentID:           commentID,
		TrackingNumber:      attrs.TrackingNbr,
		Country:             attrs.Country,
		StateOrProvince:     attrs.StateProvinceRegion,
		ZipCode:             attrs.Zip,
		DocumentCategory:    attrs.Category,
		DocumentSubtype:     attrs.Subtype,
		ReceivedDate:        receivedDate,
		DetailURL:           detailURL,
		Title:               attrs.Title,
		ObjectID:            attrs.ObjectID,
		AgencyID:            attrs.AgencyID,
		DocketID:            attrs.DocketID,
		OpenForComment:      attrs.OpenForComment,
		CommentOnDocumentID: attrs.CommentOnDocumentID,
		Withdrawn:           attrs.Withdrawn,
		RestrictReason:      attrs.RestrictReason,
		RestrictReasonType:  attrs.RestrictReasonType,
		CommentText:         attrs.Comment,
		FetchedAt:           time.Now().UTC(),
	}

	return CommentDetail{Comment: comment, Raw: body}, nil
}

func (s *RegulationsService) doRequest(ctx context.Context, rawURL string, params url.Values, action string, eventID *string) ([]byte, error) {
	var lastErr error

	tries := 0
	for tries < requestTries {
		req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, nil)
		if err != nil {
			return nil, fmt.Errorf("build request: %w", err)
		}
		req.URL.RawQuery = params.Encode()
		req.Header.Set("Accept", "application/vnd.api+json")
		req.Header.Set("X-Api-Key", s.apiKey)
		req.Header.Set("Referer", "https://www.regulations.gov/")
		req.Header.Set("Origin", "https://www.regulations.gov")
		req.Header.Set("User-Agent", randomUserAgent())

		resp, err := s.client.Do(req)
		if err != nil {
			lastErr = fmt.Errorf("do request: %w", err)
			tries++
			continue
		}

		body, readErr := io.ReadAll(resp.Body)
		closeErr := resp.Body.Close()
		if readErr != nil {
			lastErr = fmt.Errorf("read response: %w", readErr)
			tries++
			continue
		}
		if closeErr != nil {
			lastErr = fmt.Errorf("close response: %w", closeErr)
			tries++
			continue
		}

		// A rate-limited request does not consume a try.
		if resp.StatusCode == http.StatusTooManyRequests {
			waitMsg := fmt.Sprintf("rate limit hit url=%s, waiting %s", rawURL, rateLimitWait)
			_ = s.logService.CreateLog(ctx, eventID, action, LogOutcomeFail, &waitMsg)
			s.sleep(rateLimitWait)
			continue
		}

		if resp.StatusCode >= http.StatusOK && resp.StatusCode < http.StatusMultipleChoices {
			return body, nil
		}

		lastErr = fmt.Errorf("request failed with status %d", resp.StatusCode)
		tries++
	}

	return nil, lastErr
}

func (s *RegulationsService) jitterSleep() {
	if s.maxJitter <= 0 {
		return
	}

	delay := s.minJitter
	if spread := s.maxJitter - s.minJitter; spread > 0 {
		delay += time.Duration(rand.Int63n(int64(spread) + 1))
	}
	s.sleep(delay)
}
