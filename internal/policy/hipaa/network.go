package hipaa

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/hipaaguard/hipaaguard/internal/asset"
	"github.com/hipaaguard/hipaaguard/internal/policy"
)

const anyAddr = "0.0.0.0/0"

// Network security (§164.312(e)(1)): firewall exposure and private
// networking posture.
func registerNetworkSecurity(l *policy.Library) {
	l.MustRegister(firewallPortRule(
		"firewall-open-ssh",
		policy.SeverityCritical,
		"Firewall rule allows unrestricted SSH access",
		"SSH access could be exploited to access PHI systems",
		[]string{
			"Review firewall rule configuration",
			"Restrict SSH access to specific IP ranges and implement VPN",
			"Enable VPC flow logs",
		},
		22,
	))

	l.MustRegister(firewallPortRule(
		"firewall-open-rdp",
		policy.SeverityCritical,
		"Firewall rule allows unrestricted RDP access",
		"Remote desktop access could be exploited to access PHI systems",
		[]string{
			"Review firewall rule configuration",
			"Restrict RDP access to specific IP ranges and implement VPN",
			"Enable VPC flow logs",
		},
		3389,
	))

	l.MustRegister(firewallPortRule(
		"firewall-open-database",
		policy.SeverityHigh,
		"Firewall rule exposes a database port to the internet",
		"Databases holding PHI are directly reachable from any address",
		[]string{
			"Restrict database ports to application subnets",
			"Implement network segmentation",
			"Move databases behind private service connections",
		},
		3306, 5432, 1433,
	))

	l.MustRegister(policy.Rule{
		ID:             "firewall-open-all-ports",
		AssetTypes:     []string{"compute.firewall"},
		Severity:       policy.SeverityHigh,
		Category:       policy.CategoryNetworkSecurity,
		Citation:       "§164.312(e)(1)",
		Title:          "Firewall rule allows unrestricted access on all ports",
		BusinessImpact: "Every service on matched instances is reachable from the internet",
		Remediation: []string{
			"Review firewall rule configuration",
			"Restrict source IP ranges",
			"Limit the rule to the specific ports required",
		},
		Predicate: func(a asset.Asset) (string, bool) {
			if !firewallOpenToWorld(a) {
				return "", false
			}
			allowed, ok := a.Slice("allowed")
			if !ok {
				return "", false
			}
			for _, raw := range allowed {
				entry, ok := asset.AsMap(raw)
				if !ok {
					continue
				}
				if _, hasPorts := entry["ports"]; !hasPorts {
					return fmt.Sprintf("Firewall rule %q allows %s to reach all ports", a.ShortName(), anyAddr), true
				}
			}
			return "", false
		},
	})

	l.MustRegister(policy.Rule{
		ID:             "sql-public-ip",
		AssetTypes:     []string{"sql.instance"},
		Severity:       policy.SeverityMedium,
		Category:       policy.CategoryNetworkSecurity,
		Citation:       "§164.312(e)(1)",
		Title:          "Cloud SQL instance is reachable over public IP",
		BusinessImpact: "The database's attack surface includes the public internet",
		Remediation: []string{
			"Disable the public IP and use private service access",
			"Restrict authorized networks while migrating",
		},
		Predicate: func(a asset.Asset) (string, bool) {
			if ipv4, ok := a.Bool("settings.ipConfiguration.ipv4Enabled"); ok && !ipv4 {
				return "", false
			}
			return fmt.Sprintf("Cloud SQL instance %q has a public IP enabled", a.ShortName()), true
		},
	})

	l.MustRegister(policy.Rule{
		ID:             "instance-public-ip",
		AssetTypes:     []string{"compute.instance"},
		Severity:       policy.SeverityMedium,
		Category:       policy.CategoryNetworkSecurity,
		Citation:       "§164.312(e)(1)",
		Title:          "Compute instance has an external IP address",
		BusinessImpact: "The instance is directly addressable from the internet",
		Remediation: []string{
			"Remove external access configs from the instance",
			"Use Cloud NAT or IAP for outbound and operator access",
		},
		Predicate: func(a asset.Asset) (string, bool) {
			nics, ok := a.Slice("networkInterfaces")
			if !ok {
				return "", false
			}
			for _, raw := range nics {
				nic, ok := asset.AsMap(raw)
				if !ok {
					continue
				}
				if configs, ok := nic["accessConfigs"].([]any); ok && len(configs) > 0 {
					return fmt.Sprintf("Compute instance %q has an external IP address", a.ShortName()), true
				}
			}
			return "", false
		},
	})

	l.MustRegister(policy.Rule{
		ID:             "gke-private-nodes",
		AssetTypes:     []string{"container.cluster"},
		Severity:       policy.SeverityHigh,
		Category:       policy.CategoryNetworkSecurity,
		Citation:       "§164.312(e)(1)",
		Title:          "GKE cluster nodes have public IP addresses",
		BusinessImpact: "Cluster nodes running PHI workloads are internet-addressable",
		Remediation: []string{
			"Recreate node pools with private nodes enabled",
			"Expose workloads through load balancers only",
		},
		Predicate: func(a asset.Asset) (string, bool) {
			if private, ok := a.Bool("privateClusterConfig.enablePrivateNodes"); ok && private {
				return "", false
			}
			return fmt.Sprintf("GKE cluster %q does not use private nodes", a.ShortName()), true
		},
	})

	l.MustRegister(policy.Rule{
		ID:             "gke-network-policy",
		AssetTypes:     []string{"container.cluster"},
		Severity:       policy.SeverityMedium,
		Category:       policy.CategoryNetworkSecurity,
		Citation:       "§164.312(e)(1)",
		Title:          "GKE cluster has no network policy enforcement",
		BusinessImpact: "Any pod can reach any other pod, including PHI services",
		Remediation: []string{
			"Enable network policy enforcement on the cluster",
			"Define default-deny policies for PHI namespaces",
		},
		Predicate: func(a asset.Asset) (string, bool) {
			if enabled, ok := a.Bool("networkPolicy.enabled"); ok && enabled {
				return "", false
			}
			return fmt.Sprintf("GKE cluster %q does not enforce network policies", a.ShortName()), true
		},
	})
}

// firewallPortRule builds a rule flagging ingress from 0.0.0.0/0 to any of
// the given TCP ports.
func firewallPortRule(id string, sev policy.Severity, title, impact string, remediation []string, ports ...int) policy.Rule {
	return policy.Rule{
		ID:             id,
		AssetTypes:     []string{"compute.firewall"},
		Severity:       sev,
		Category:       policy.CategoryNetworkSecurity,
		Citation:       "§164.312(e)(1)",
		Title:          title,
		BusinessImpact: impact,
		Remediation:    remediation,
		Predicate: func(a asset.Asset) (string, bool) {
			if !firewallOpenToWorld(a) {
				return "", false
			}
			for _, port := range ports {
				if firewallAllowsPort(a, port) {
					return fmt.Sprintf("Firewall rule %q allows unrestricted access to sensitive port %d", a.ShortName(), port), true
				}
			}
			return "", false
		},
	}
}

// firewallOpenToWorld reports whether an enabled ingress rule matches all
// source addresses. Missing direction and disabled fields take their least
// permissive reading: an ingress rule that is in force.
func firewallOpenToWorld(a asset.Asset) bool {
	if disabled, ok := a.Bool("disabled"); ok && disabled {
		return false
	}
	if dir, ok := a.String("direction"); ok && dir != "" && dir != "INGRESS" {
		return false
	}
	ranges, ok := a.Strings("sourceRanges")
	if !ok {
		return false
	}
	for _, r := range ranges {
		if r == anyAddr || r == "::/0" {
			return true
		}
	}
	return false
}

// firewallAllowsPort reports whether any allowed entry covers the TCP port.
// An entry without a protocol or without a ports list is read as covering
// everything.
func firewallAllowsPort(a asset.Asset, port int) bool {
	allowed, ok := a.Slice("allowed")
	if !ok {
		return false
	}
	for _, raw := range allowed {
		entry, ok := asset.AsMap(raw)
		if !ok {
			continue
		}
		if proto, ok := entry["IPProtocol"].(string); ok {
			p := strings.ToLower(proto)
			if p != "tcp" && p != "all" {
				continue
			}
		}
		rawPorts, ok := entry["ports"].([]any)
		if !ok {
			return true
		}
		for _, rp := range rawPorts {
			spec, ok := rp.(string)
			if ok && portSpecCovers(spec, port) {
				return true
			}
		}
	}
	return false
}

// portSpecCovers matches a firewall port spec ("22" or "20-25") against one
// port number.
func portSpecCovers(spec string, port int) bool {
	lo, hi, isRange := strings.Cut(spec, "-")
	if !isRange {
		n, err := strconv.Atoi(strings.TrimSpace(spec))
		return err == nil && n == port
	}
	from, err1 := strconv.Atoi(strings.TrimSpace(lo))
	to, err2 := strconv.Atoi(strings.TrimSpace(hi))
	return err1 == nil && err2 == nil && from <= port && port <= to
}
