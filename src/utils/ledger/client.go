package ledger

import (
	"context"
	"encoding/json"
	"fmt"
	"net/url"
	"strconv"
	"strings"

	"github.com/trackium/trackd/src/utils/build_info"
	"github.com/trackium/trackd/src/utils/config"
	"github.com/trackium/trackd/src/utils/logger"

	"github.com/go-resty/resty/v2"
	"github.com/rs/xid"
	"github.com/sirupsen/logrus"
	"golang.org/x/time/rate"
)

// Thin client for the ledger node's command interface.
// Commands are url-encoded into the request path, the node answers
// with a JSON envelope carrying the status flag and the payload.
type Client struct {
	client  *resty.Client
	config  *config.Config
	log     *logrus.Entry
	limiter *rate.Limiter
}

func NewClient(config *config.Config) (self *Client) {
	self = new(Client)
	self.config = config
	self.log = logger.NewSublogger("ledger-client")

	self.limiter = rate.NewLimiter(rate.Limit(config.Ledger.RequestsPerSecond), 1)

	self.client =
		resty.New().
			SetBaseURL(config.Ledger.NodeUrl).
			SetTimeout(config.Ledger.RequestTimeout).
			SetHeader("User-Agent", "trackium/trackd/"+build_info.Version).
			SetRetryCount(1).
			AddRetryCondition(self.onRetryCondition).
			AddRetryAfterErrorCondition().
			OnBeforeRequest(self.onRateLimit).
			OnAfterResponse(self.onStatusToError)

	return
}

// Returns true if request should be retried
func (self *Client) onRetryCondition(resp *resty.Response, err error) bool {
	if err != nil {
		// There was an error
		return false
	}

	if resp.IsSuccess() || !resp.IsError() {
		// OK response or redirect, skip retrying
		return false
	}

	// Server side errors may be retried
	return resp.StatusCode() >= 500
}

func (self *Client) onRateLimit(c *resty.Client, req *resty.Request) (err error) {
	// Blocks till the request is possible
	// Or ctx gets canceled
	err = self.limiter.Wait(req.Context())
	if err != nil {
		self.log.WithError(err).Error("Rate limiting failed")
	}
	return
}

func (self *Client) onStatusToError(c *resty.Client, resp *resty.Response) error {
	// Non-success status code turns into an error
	if resp.IsSuccess() {
		return nil
	}
	if resp.StatusCode() > 399 && resp.StatusCode() < 500 {
		self.log.WithField("status", resp.StatusCode()).
			WithField("resp", string(resp.Body())).
			WithField("url", resp.Request.URL).
			Debug("Bad request")
	}
	return fmt.Errorf("unexpected status: %s", resp.Status())
}

func (self *Client) executeCommand(ctx context.Context, command string, out any) (err error) {
	resp, err := self.client.R().
		SetContext(ctx).
		ForceContentType("application/json").
		SetResult(&response{}).
		Get("/" + url.PathEscape(command))
	if err != nil {
		return
	}

	res, ok := resp.Result().(*response)
	if !ok {
		return ErrFailedToParse
	}

	if !res.Status {
		if strings.Contains(strings.ToLower(res.Error), "not found") {
			return ErrTxNotFound
		}
		return fmt.Errorf("command rejected: %s", res.Error)
	}

	if out != nil {
		err = json.Unmarshal(res.Response, out)
		if err != nil {
			self.log.WithError(err).WithField("response", string(res.Response)).Debug("Bad response payload")
			return ErrFailedToParse
		}
	}
	return
}

// Creates an empty transaction on the node, returns its id.
// The id only identifies the draft on this node, it is not the
// reference the posted transaction ends up with.
func (self *Client) CreateTransaction(ctx context.Context) (txnId string, err error) {
	txnId = xid.New().String()

	err = self.executeCommand(ctx, fmt.Sprintf("txncreate id:%s", txnId), nil)
	if err != nil {
		err = NewError(StepCreate, err)
		return
	}
	return
}

// Attaches a spendable coin as the transaction's funding input
func (self *Client) AttachFundingInput(ctx context.Context, txnId, coinId string) (err error) {
	err = self.executeCommand(ctx, fmt.Sprintf("txninput id:%s coinid:%s", txnId, coinId), nil)
	if err != nil {
		err = NewError(StepFunding, err)
		return
	}
	return
}

// Writes the proof metadata into the transaction state
func (self *Client) AttachMetadata(ctx context.Context, txnId string, metadata *Metadata) (err error) {
	data, err := json.Marshal(metadata)
	if err != nil {
		err = NewError(StepMetadata, err)
		return
	}

	err = self.executeCommand(ctx, fmt.Sprintf("txnstate id:%s port:%d value:%s", txnId, MetadataPort, string(data)), nil)
	if err != nil {
		err = NewError(StepMetadata, err)
		return
	}
	return
}

func (self *Client) Sign(ctx context.Context, txnId string) (err error) {
	err = self.executeCommand(ctx, fmt.Sprintf("txnsign id:%s publickey:auto", txnId), nil)
	if err != nil {
		err = NewError(StepSigning, err)
		return
	}
	return
}

// Posts the signed transaction, returns the ledger reference
func (self *Client) Post(ctx context.Context, txnId string) (txReference string, err error) {
	out := new(postResult)
	err = self.executeCommand(ctx, fmt.Sprintf("txnpost id:%s auto:true", txnId), out)
	if err != nil {
		err = NewError(StepPosting, err)
		return
	}

	if out.TxPowID == "" {
		err = NewError(StepPosting, ErrFailedToParse)
		return
	}

	txReference = out.TxPowID
	return
}

// Looks up a posted transaction by its reference.
// Returns ErrTxNotFound (wrapped) when the node doesn't know it yet.
func (self *Client) Find(ctx context.Context, txReference string) (out *Transaction, err error) {
	out = new(Transaction)
	err = self.executeCommand(ctx, fmt.Sprintf("txpow txpowid:%s", txReference), out)
	if err != nil {
		out = nil
		err = NewError(StepQuery, err)
		return
	}
	return
}

func (self *Client) ListSpendableCoins(ctx context.Context) (out []Coin, err error) {
	err = self.executeCommand(ctx, "coins relevant:true sendable:true", &out)
	if err != nil {
		err = NewError(StepQuery, err)
		return
	}

	if len(out) > self.config.Ledger.MaxCoinsPerQuery {
		out = out[:self.config.Ledger.MaxCoinsPerQuery]
	}
	return
}

func (self *Client) CurrentBlockHeight(ctx context.Context) (height int64, err error) {
	out := new(blockInfo)
	err = self.executeCommand(ctx, "block", out)
	if err != nil {
		err = NewError(StepQuery, err)
		return
	}

	height, err = strconv.ParseInt(out.Block, 10, 64)
	if err != nil {
		err = NewError(StepQuery, ErrFailedToParse)
		return
	}
	return
}
