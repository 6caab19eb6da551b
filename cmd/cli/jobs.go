package main

import (
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strconv"

	"github.com/spf13/cobra"
)

func newJobsCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "jobs",
		Short: "Manage job listings",
	}

	cmd.AddCommand(newJobsListCmd())
	cmd.AddCommand(newJobsMineCmd())
	cmd.AddCommand(newJobsGetCmd())
	cmd.AddCommand(newJobsSimilarCmd())
	cmd.AddCommand(newJobsCreateCmd())
	cmd.AddCommand(newJobsUpdateCmd())
	cmd.AddCommand(newJobsDeleteCmd())
	return cmd
}

func pageQuery(limit, skip int) url.Values {
	query := url.Values{}
	if limit > 0 {
		query.Set("limit", strconv.Itoa(limit))
	}
	if skip > 0 {
		query.Set("skip", strconv.Itoa(skip))
	}
	return query
}

func newJobsListCmd() *cobra.Command {
	var (
		search, category, location string
		limit, skip                int
	)

	cmd := &cobra.Command{
		Use:   "list",
		Short: "Search job listings",
		RunE: func(cmd *cobra.Command, args []string) error {
			client, err := getClient(false)
			if err != nil {
				return err
			}

			query := pageQuery(limit, skip)
			if search != "" {
				query.Set("search", search)
			}
			if category != "" {
				query.Set("category", category)
			}
			if location != "" {
				query.Set("location", location)
			}

			body, err := client.Get("/jobs", query)
			if err != nil {
				return err
			}
			return printJobList(body)
		},
	}

	cmd.Flags().StringVar(&search, "search", "", "Text to find in titles and descriptions")
	cmd.Flags().StringVar(&category, "category", "", "Exact category")
	cmd.Flags().StringVar(&location, "location", "", "Exact location")
	cmd.Flags().IntVar(&limit, "limit", 0, "Maximum number of results")
	cmd.Flags().IntVar(&skip, "skip", 0, "Number of results to skip")
	return cmd
}

func newJobsMineCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "mine",
		Short: "List the listings you own",
		RunE: func(cmd *cobra.Command, args []string) error {
			client, err := getClient(true)
			if err != nil {
				return err
			}

			body, err := client.Get("/jobs/users/me", nil)
			if err != nil {
				return err
			}
			return printJobList(body)
		},
	}
}

func newJobsGetCmd() *cobra.Command {
	var id string

	cmd := &cobra.Command{
		Use:   "get",
		Short: "Show a job listing",
		RunE: func(cmd *cobra.Command, args []string) error {
			client, err := getClient(false)
			if err != nil {
				return err
			}

			body, err := client.Get("/jobs/"+url.PathEscape(id), nil)
			if err != nil {
				return err
			}

			if flagJSON {
				return printRaw(body)
			}

			var resp DataResponse[JobResponse]
			if err := json.Unmarshal(body, &resp); err != nil {
				return fmt.Errorf("failed to parse response: %w", err)
			}

			j := resp.Data
			printMessage(fmt.Sprintf("ID:          %s", j.ID))
			printMessage(fmt.Sprintf("Title:       %s", j.Title))
			printMessage(fmt.Sprintf("Company:     %s", j.Company))
			printMessage(fmt.Sprintf("Category:    %s", j.Category))
			printMessage(fmt.Sprintf("Type:        %s", j.EmploymentType))
			printMessage(fmt.Sprintf("Location:    %s", j.Location))
			printMessage(fmt.Sprintf("Salary:      %.2f - %.2f", j.SalaryMin, j.SalaryMax))
			printMessage(fmt.Sprintf("Posted:      %s", j.DatePosted))
			printMessage(fmt.Sprintf("Contact:     %s", j.ContactEmail))
			printMessage(fmt.Sprintf("Flyer:       %s", j.FlyerURL))
			printMessage(fmt.Sprintf("Benefits:    %s", j.Benefits))
			printMessage(fmt.Sprintf("Requirements: %s", j.Requirements))
			printMessage("")
			printMessage(j.Description)
			return nil
		},
	}

	cmd.Flags().StringVar(&id, "id", "", "Job ID (required)")
	cmd.MarkFlagRequired("id")
	return cmd
}

func newJobsSimilarCmd() *cobra.Command {
	var (
		id          string
		limit, skip int
	)

	cmd := &cobra.Command{
		Use:   "similar",
		Short: "List listings similar to a job",
		RunE: func(cmd *cobra.Command, args []string) error {
			client, err := getClient(false)
			if err != nil {
				return err
			}

			body, err := client.Get("/jobs/"+url.PathEscape(id)+"/similar", pageQuery(limit, skip))
			if err != nil {
				return err
			}
			return printJobList(body)
		},
	}

	cmd.Flags().StringVar(&id, "id", "", "Job ID (required)")
	cmd.MarkFlagRequired("id")
	cmd.Flags().IntVar(&limit, "limit", 0, "Maximum number of results")
	cmd.Flags().IntVar(&skip, "skip", 0, "Number of results to skip")
	return cmd
}

// jobFlags holds the listing fields shared by create and update.
type jobFlags struct {
	fields    map[string]*string
	salaryMin float64
	salaryMax float64
	flyerPath string
}

var jobFieldNames = []string{
	"title", "company", "description", "category", "employment_type", "location",
	"benefits", "requirements", "contact_email", "date_posted",
}

func bindJobFlags(cmd *cobra.Command) *jobFlags {
	f := &jobFlags{fields: make(map[string]*string, len(jobFieldNames))}
	for _, name := range jobFieldNames {
		f.fields[name] = cmd.Flags().String(name, "", "Listing "+name)
	}
	cmd.Flags().Float64Var(&f.salaryMin, "salary_min", 0, "Minimum salary")
	cmd.Flags().Float64Var(&f.salaryMax, "salary_max", 0, "Maximum salary")
	cmd.Flags().StringVar(&f.flyerPath, "flyer", "", "Flyer image to upload; generated when omitted")

	for _, name := range []string{"title", "company", "category", "employment_type", "location",
		"benefits", "requirements", "contact_email", "date_posted", "salary_min", "salary_max"} {
		cmd.MarkFlagRequired(name)
	}
	return f
}

func (f *jobFlags) form() map[string]string {
	out := make(map[string]string, len(f.fields)+2)
	for name, v := range f.fields {
		out[name] = *v
	}
	out["salary_min"] = strconv.FormatFloat(f.salaryMin, 'f', -1, 64)
	out["salary_max"] = strconv.FormatFloat(f.salaryMax, 'f', -1, 64)
	return out
}

func newJobsCreateCmd() *cobra.Command {
	var flags *jobFlags

	cmd := &cobra.Command{
		Use:   "create",
		Short: "Publish a job listing",
		RunE: func(cmd *cobra.Command, args []string) error {
			client, err := getClient(true)
			if err != nil {
				return err
			}

			body, err := client.SendForm(http.MethodPost, "/jobs", flags.form(), flags.flyerPath)
			if err != nil {
				return err
			}
			return printSuccess(body)
		},
	}

	flags = bindJobFlags(cmd)
	return cmd
}

func newJobsUpdateCmd() *cobra.Command {
	var (
		id    string
		flags *jobFlags
	)

	cmd := &cobra.Command{
		Use:   "update",
		Short: "Replace one of your job listings",
		RunE: func(cmd *cobra.Command, args []string) error {
			client, err := getClient(true)
			if err != nil {
				return err
			}

			body, err := client.SendForm(http.MethodPut, "/jobs/"+url.PathEscape(id), flags.form(), flags.flyerPath)
			if err != nil {
				return err
			}
			return printSuccess(body)
		},
	}

	cmd.Flags().StringVar(&id, "id", "", "Job ID (required)")
	cmd.MarkFlagRequired("id")
	flags = bindJobFlags(cmd)
	return cmd
}

func newJobsDeleteCmd() *cobra.Command {
	var (
		id  string
		yes bool
	)

	cmd := &cobra.Command{
		Use:   "delete",
		Short: "Delete one of your job listings",
		RunE: func(cmd *cobra.Command, args []string) error {
			if !confirmAction(fmt.Sprintf("Delete job %s?", id), yes) {
				printMessage("Aborted")
				return nil
			}

			client, err := getClient(true)
			if err != nil {
				return err
			}

			body, err := client.Delete("/jobs/" + url.PathEscape(id))
			if err != nil {
				return err
			}
			return printSuccess(body)
		},
	}

	cmd.Flags().StringVar(&id, "id", "", "Job ID (required)")
	cmd.MarkFlagRequired("id")
	cmd.Flags().BoolVarP(&yes, "yes", "y", false, "Skip confirmation")
	return cmd
}

func printJobList(body []byte) error {
	if flagJSON {
		return printRaw(body)
	}

	var resp DataResponse[[]JobResponse]
	if err := json.Unmarshal(body, &resp); err != nil {
		return fmt.Errorf("failed to parse response: %w", err)
	}

	headers := []string{"ID", "TITLE", "COMPANY", "CATEGORY", "LOCATION", "POSTED"}
	var rows [][]string
	for _, j := range resp.Data {
		rows = append(rows, []string{
			j.ID.String(),
			truncate(j.Title, 40),
			truncate(j.Company, 24),
			j.Category,
			j.Location,
			j.DatePosted,
		})
	}
	printTable(headers, rows)
	printMessage(fmt.Sprintf("\n%d listings", len(resp.Data)))
	return nil
}
