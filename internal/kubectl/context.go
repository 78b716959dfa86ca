// Copyright (C) ConfigHub, Inc.
// SPDX-License-Identifier: MIT

package kubectl

import (
	"k8s.io/client-go/tools/clientcmd"
)

// KubeContext is the active kubeconfig context.
type KubeContext struct {
	Name      string
	Namespace string
}

// CurrentContext reads the active context and its default namespace from
// the kubeconfig ($KUBECONFIG or ~/.kube/config).
func CurrentContext() KubeContext {
	loadingRules := clientcmd.NewDefaultClientConfigLoadingRules()
	configOverrides := &clientcmd.ConfigOverrides{}
	kubeConfig := clientcmd.NewNonInteractiveDeferredLoadingClientConfig(loadingRules, configOverrides)

	rawConfig, err := kubeConfig.RawConfig()
	if err != nil {
		return KubeContext{Name: "unknown", Namespace: "default"}
	}

	kc := KubeContext{Name: rawConfig.CurrentContext, Namespace: "default"}
	if kc.Name == "" {
		kc.Name = "default"
	}
	if ctx, ok := rawConfig.Contexts[rawConfig.CurrentContext]; ok && ctx.Namespace != "" {
		kc.Namespace = ctx.Namespace
	}
	return kc
}
