package translate

import "sort"

// SampleQueries are known-good SPL detections for trying the pipeline
// out without hunting for real rules.
var SampleQueries = map[string]string{
	"failed-logins": `index=main sourcetype=WinEventLog:Security EventCode=4625
| stats count by src_ip, user
| where count > 5`,

	"encoded-powershell": `index=main sourcetype=WinEventLog:PowerShell
| search EncodedCommand=*
| table _time, host, CommandLine`,

	"suspicious-process": `index=main sourcetype=WinEventLog:Security EventCode=4688
| eval cmdline=lower(CommandLine)
| search cmdline="*powershell*" OR cmdline="*cmd.exe*"
| stats count by user, parent_process`,

	"suspicious-ip-traffic": `index=main sourcetype=firewall
| search dest_ip IN (192.168.1.100, 10.0.0.50)
| stats sum(bytes) as total_bytes by src_ip, dest_port
| where total_bytes > 1000000`,

	"ssh-bruteforce": `index=main sourcetype=linux_secure
| rex field=_raw "Failed password for (?<user>\w+) from (?<src_ip>[\d.]+)"
| stats count by src_ip, user
| where count > 10`,
}

// SampleNames returns the sample query names sorted.
func SampleNames() []string {
	names := make([]string, 0, len(SampleQueries))
	for name := range SampleQueries {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
