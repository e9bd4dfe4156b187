package loginmethods

import (
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/hashicorp/go-multierror"
	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"github.com/stephnangue/lcadmin/cmd/helpers"
	"github.com/stephnangue/lcadmin/config"
	"github.com/stephnangue/lcadmin/loginmethod"
)

type applyOptions struct {
	family      string
	description string
	sourceType  string
	targetType  string
	params      map[string]string
	file        string
	parallel    int
	dryRun      bool
	strictProbe bool
	format      string
}

var ApplyCmd = newApplyCmd()

func newApplyCmd() *cobra.Command {
	opts := &applyOptions{}

	cmd := &cobra.Command{
		Use:   "apply [name]",
		Short: "Create or update a login method",
		Long: `Creates the named login method, or updates it when it already exists.

Parameters are passed as --param key=value. Values prefixed with "@" are read
from a file. Secret parameters (password, token, ticket) are only rotated on
update when the matching change flag is set.

Examples:
  lcadmin login-method apply intranet --type Credential \
      --param username=svc --param password=@/run/secrets/pw

  lcadmin login-method apply crm --type DelegatedAuth \
      --source-type Reference --target-type CustomHeader \
      --param oauth2ClientName=partner --param customHeaderName=X-Auth

  lcadmin login-method apply -f login-methods.hcl --parallel 8`,
		SilenceUsage:  true,
		SilenceErrors: true,
		Args:          cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runApply(cmd, opts, args)
		},
	}

	cmd.Flags().StringVar(&opts.family, "type", "", "Login method family: Credential, Token, SingleSignOn or DelegatedAuth")
	cmd.Flags().StringVar(&opts.description, "description", "", "Free text description")
	cmd.Flags().StringVar(&opts.sourceType, "source-type", "", "Where the credentials come from (family default when empty)")
	cmd.Flags().StringVar(&opts.targetType, "target-type", "", "How the credentials are presented (Default when empty)")
	cmd.Flags().StringToStringVar(&opts.params, "param", nil, "Login method parameter (key=value)")
	cmd.Flags().StringVarP(&opts.file, "file", "f", "", "HCL file of login_method blocks to apply")
	cmd.Flags().IntVar(&opts.parallel, "parallel", 4, "Maximum concurrent applies with --file")
	cmd.Flags().BoolVar(&opts.dryRun, "dry-run", false, "Print the normalized request instead of submitting it")
	cmd.Flags().BoolVar(&opts.strictProbe, "strict-probe", false, "Fail when the existence check fails for a reason other than not found")
	cmd.Flags().StringVar(&opts.format, "format", helpers.FormatTable, "Output format (table or json)")

	return cmd
}

func runApply(cmd *cobra.Command, opts *applyOptions, args []string) error {
	if err := helpers.ValidateFormat(opts.format); err != nil {
		return err
	}
	out := cmd.OutOrStdout()

	requests, err := opts.requests(args)
	if err != nil {
		return helpers.WriteResult(out, opts.format, "", err)
	}

	c, err := helpers.Client()
	if err != nil {
		return err
	}

	engineOpts := []loginmethod.Option{loginmethod.WithLogger(helpers.Logger())}
	if opts.strictProbe {
		engineOpts = append(engineOpts, loginmethod.WithStrictProbe())
	}
	engine := loginmethod.NewEngineFromClient(c, engineOpts...)

	if opts.dryRun {
		return runPlan(cmd.Context(), out, opts, engine, requests)
	}

	if opts.file == "" {
		msg, err := engine.Apply(cmd.Context(), requests[0])
		return helpers.WriteResult(out, opts.format, msg, err)
	}
	return applyBatch(cmd.Context(), out, opts, engine, requests)
}

// requests builds the login method requests from either the flags or the
// batch file.
func (o *applyOptions) requests(args []string) ([]*loginmethod.Request, error) {
	if o.file != "" {
		if len(args) > 0 || o.family != "" || len(o.params) > 0 {
			return nil, fmt.Errorf("--file cannot be combined with a name, --type or --param")
		}
		return loadBatch(o.file)
	}

	if len(args) == 0 {
		return nil, fmt.Errorf("a login method name or --file is required")
	}
	if o.family == "" {
		return nil, fmt.Errorf("--type is required")
	}

	params, err := helpers.ResolveFileRefs(o.params)
	if err != nil {
		return nil, err
	}

	raw := make(map[string]any, len(params)+5)
	for k, v := range params {
		raw[k] = v
	}
	raw["name"] = args[0]
	raw["type"] = o.family
	// Unset flags stay out of the map so that a matching --param does not
	// collide with an empty value.
	for key, value := range map[string]string{
		"description": o.description,
		"sourceType":  o.sourceType,
		"targetType":  o.targetType,
	} {
		if value != "" {
			raw[key] = value
		}
	}

	req, err := loginmethod.DecodeRequest(raw)
	if err != nil {
		return nil, err
	}
	return []*loginmethod.Request{req}, nil
}

func loadBatch(file string) ([]*loginmethod.Request, error) {
	batch, err := config.LoadBatch(file)
	if err != nil {
		return nil, fmt.Errorf("failed to load %s: %w", file, err)
	}

	var result *multierror.Error
	requests := make([]*loginmethod.Request, 0, len(batch.LoginMethods))
	for i := range batch.LoginMethods {
		block := &batch.LoginMethods[i]
		params, err := helpers.ResolveFileRefs(block.Params)
		if err != nil {
			result = multierror.Append(result, fmt.Errorf("login_method %q: %w", block.Name, err))
			continue
		}
		block.Params = params
		req, err := loginmethod.DecodeRequest(block.Raw())
		if err != nil {
			result = multierror.Append(result, fmt.Errorf("login_method %q: %w", block.Name, err))
			continue
		}
		requests = append(requests, req)
	}
	if err := result.ErrorOrNil(); err != nil {
		return nil, err
	}
	return requests, nil
}

type batchResult struct {
	Name   string `json:"name"`
	Result string `json:"result,omitempty"`
	Error  string `json:"error,omitempty"`
}

// applyBatch applies every request, at most opts.parallel at a time. One
// failure does not stop the others; all failures are reported together.
func applyBatch(ctx context.Context, out io.Writer, opts *applyOptions, engine *loginmethod.Engine, requests []*loginmethod.Request) error {
	results := make([]batchResult, len(requests))
	errs := make([]error, len(requests))

	var g errgroup.Group
	if opts.parallel > 0 {
		g.SetLimit(opts.parallel)
	}
	for i, req := range requests {
		g.Go(func() error {
			msg, err := engine.Apply(ctx, req)
			results[i] = batchResult{Name: req.Name, Result: msg}
			if err != nil {
				results[i].Error = err.Error()
				errs[i] = fmt.Errorf("login_method %q: %w", req.Name, err)
			}
			return nil
		})
	}
	_ = g.Wait()

	var result *multierror.Error
	for _, err := range errs {
		if err != nil {
			result = multierror.Append(result, err)
		}
	}

	if strings.EqualFold(opts.format, helpers.FormatJSON) {
		return helpers.WriteJSON(out, results)
	}
	for _, r := range results {
		if r.Error == "" {
			fmt.Fprintf(out, "Success! %s\n", r.Result)
		}
	}
	return result.ErrorOrNil()
}

type planView struct {
	Operation   loginmethod.Operation `json:"operation"`
	LoginMethod any                   `json:"loginMethod"`
}

func runPlan(ctx context.Context, out io.Writer, opts *applyOptions, engine *loginmethod.Engine, requests []*loginmethod.Request) error {
	views := make([]planView, 0, len(requests))
	var result *multierror.Error
	for _, req := range requests {
		plan, err := engine.Plan(ctx, req)
		if err != nil {
			result = multierror.Append(result, fmt.Errorf("login_method %q: %w", req.Name, err))
			continue
		}
		views = append(views, planView{
			Operation:   plan.Operation,
			LoginMethod: helpers.MaskInput(plan.Input),
		})
	}

	if err := result.ErrorOrNil(); err != nil {
		return helpers.WriteResult(out, opts.format, "", err)
	}
	if len(views) == 1 {
		return helpers.WriteJSON(out, views[0])
	}
	return helpers.WriteJSON(out, views)
}
