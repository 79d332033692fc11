package service

import (
	"fmt"
	"html/template"
	"strings"

	dom "pushverify/internal/services/gitqueue/domain"
)

// mailView is what the mail templates render
type mailView struct {
	User       string
	Title      string
	Repo       string
	Branch     string
	Revision   string
	RequestURL string
	ReviewID   string
	ReviewURL  string
	Reason     string
	Kind       dom.Kind
}

const mailHeader = `{{define "header"}}
<p>
	<strong>{{.User}} - {{.Title}}</strong><br />
	<em>{{.Repo}}/{{.Branch}}</em><br />
	<a href="{{.RequestURL}}">{{.RequestURL}}</a>
</p>{{end}}
{{define "review"}}{{if .ReviewID}}
<p>
	Review #: <a href="{{.ReviewURL}}">{{.ReviewID}}</a>
</p>{{end}}{{end}}
{{define "footer"}}
<p>
	Regards,<br/>
	PushManager
</p>{{end}}`

var mailTemplates = template.Must(template.New("mail").Parse(mailHeader + `
{{define "success"}}
<p>
	PushManager has verified the branch for your request.
</p>
{{- template "header" .}}
{{- template "review" .}}
<p>
	Verified revision: <code>{{.Revision}}</code><br/>
	<em>(If this is <strong>not</strong> the revision you expected,
	make sure you've pushed your latest version to the correct repo!)</em>
</p>
{{- template "footer" .}}
{{end}}
{{define "failure"}}
<p>
	<em>PushManager could <strong>not</strong> verify the branch for your request.</em>
</p>
{{- template "header" .}}
{{- if eq .Kind "remote-failed"}}
<p>
	Attempting to query the specified repository failed with
	the following error(s):
</p>
<pre>
{{.Reason}}
</pre>
{{- else if eq .Kind "ref-not-found"}}
<p>
	The specified branch ({{.Branch}}) was not found in the
	repository.
</p>
{{- else}}
<p>
	<strong>Error message</strong>:<br />
	{{.Reason}}
</p>
{{- end}}
{{- template "review" .}}
{{- if .Revision}}
<p>
	Last verified revision: <code>{{.Revision}}</code>
</p>
{{- end}}
{{- template "footer" .}}
{{end}}`))

func (s *Svc) mailView(r dom.DeploymentRequest, reason string) mailView {
	v := mailView{
		User:       r.User,
		Title:      r.Title,
		Repo:       r.Repo,
		Branch:     r.Branch,
		Revision:   r.Revision,
		RequestURL: requestURL(s.cfg.AppServer, s.cfg.AppPort, r.ID),
		Reason:     reason,
	}
	if r.HasReview() {
		v.ReviewID = r.ReviewToken()
		v.ReviewURL = fmt.Sprintf("https://%s/r/%s", s.cfg.ReviewServer, v.ReviewID)
	}
	return v
}

// requestURL omits the port when it is the https default
func requestURL(server string, port int, id int64) string {
	host := server
	if port != 0 && port != 443 {
		host = fmt.Sprintf("%s:%d", server, port)
	}
	return fmt.Sprintf("https://%s/request?id=%d", host, id)
}

func renderSuccess(v mailView) (string, error) { return render("success", v) }

func renderFailure(v mailView, kind dom.Kind) (string, error) {
	v.Kind = kind
	return render("failure", v)
}

func render(name string, v mailView) (string, error) {
	var b strings.Builder
	if err := mailTemplates.ExecuteTemplate(&b, name, v); err != nil {
		return "", err
	}
	return b.String(), nil
}
